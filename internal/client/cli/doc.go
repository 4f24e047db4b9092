// Package cli implements the rentscope command-line client.
//
// Commands are declared with github.com/jessevdk/go-flags:
//
//	rentscope [-a URL] [-c FILE] [--token-file FILE] [--timeout D] <command>
//
//	signup   create an account and remember the session token
//	login    authenticate and remember the session token
//	me       show who the saved token belongs to
//	logout   revoke the token on the server (when supported) and forget it
//	health   check that the server answers
//
// Passwords are read from the terminal without echo; when stdin is not a
// terminal the first line of stdin is used instead.
package cli
