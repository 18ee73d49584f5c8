// Package sanitizer turns user-submitted form values into plain text before
// they are interpolated into outgoing mail.
//
// Browsers submit whatever the user typed, so a name field may carry markup.
// StripHTML removes all of it with bluemonday's strict policy:
//
//	name := sanitizer.StripHTML(`Sven <b>Mkw</b>`) // "Sven Mkw"
package sanitizer
