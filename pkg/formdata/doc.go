// Package formdata parses multipart/form-data request bodies as sent by HTML
// forms into plain and list values.
//
// It handles the flat shape browsers produce for simple forms: one part per
// field, a Content-Disposition header naming the field, and a text value.
// Nested multiparts and file uploads are not supported.
//
// Usage:
//
//	boundary, err := formdata.BoundaryFromContentType(contentType)
//	if err != nil {
//		return err
//	}
//	data, err := formdata.Parse(body, boundary, formdata.CRLF)
//	if err != nil {
//		return err
//	}
//	firstName, ok := data.Plain("first_name")
//	children, ok := data.List("child_first_name") // submitted as child_first_name[]
package formdata
