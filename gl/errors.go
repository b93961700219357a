// SPDX-License-Identifier: Unlicense OR MIT

package gl

// GetError returns the most recently recorded error and clears it.
func (c *Context) GetError() Enum {
	err := c.err
	c.err = NO_ERROR
	return err
}

// setError records err, replacing any unread error.
func (c *Context) setError(op string, err Enum) {
	c.log.Debug("gl error", "op", op, "err", err)
	c.err = err
}
