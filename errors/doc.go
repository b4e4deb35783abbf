/*
Package errors implements the error taxonomy shared by every custody extension.

Reuse the root errors declared here whenever possible and register a new one
only when a client needs to tell it apart by code. Every root error carries an
ABCI code, so a failed invocation is reported to the caller as a single code
plus one log line.

If you want to register a custom error use Register(code, description).
To annotate an error use ErrXyz.New, ErrXyz.Newf, Wrap or Wrapf at the point
of creation so that a stack trace is attached once, at the innermost frame.

Once you have an error, use fmt to get more context:

	%s is just the error message
	%+v is the full stack trace
*/
package errors
