package director

import "fmt"

// RenderError is returned by MainLoop when the renderer fails. The frame
// counter is not advanced for the failed frame.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// assertf logs and panics when cond is false. Used for API misuse that
// cannot be recovered from.
func (d *Director) assertf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	d.log.Error().Msg(msg)
	panic("director: " + msg)
}

// must escalates a scene stack error to an assertion failure.
func (d *Director) must(err error) {
	if err != nil {
		d.assertf(false, "%v", err)
	}
}
