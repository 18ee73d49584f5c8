// Package fcgi implements the responder side of the FastCGI protocol for
// processes that handle exactly one request at a time.
//
// Unlike net/http/fcgi, which hides the protocol behind http.Handler and
// serves connections concurrently, this package exposes a blocking accept
// loop in the style of the reference FastCGI C library:
//
//	ln, err := fcgi.FromStdin() // socket inherited from spawn-fcgi
//	if err != nil {
//		return err
//	}
//	defer ln.Close()
//
//	for {
//		req, err := ln.Accept()
//		if err != nil {
//			return err
//		}
//		method, _ := req.Param("REQUEST_METHOD")
//		fmt.Fprintf(req.Stdout(), "Status: 200 OK\r\n\r\n%s", method)
//		if err := req.Finish(); err != nil {
//			return err
//		}
//	}
//
// Accept returns only after the web server has sent the complete parameter
// stream and the complete stdin stream, so Request.Stdin never blocks.
// Management records (FCGI_GET_VALUES) and unknown record types are answered
// transparently. Multiplexing is not supported: a second FCGI_BEGIN_REQUEST
// arriving while a request is being assembled is rejected with
// FCGI_CANT_MPX_CONN.
//
// See https://fastcgi-archives.github.io/FastCGI_Specification.html.
package fcgi
