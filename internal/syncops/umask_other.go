//go:build !unix

package syncops

// umask has no portable equivalent off unix; applyAttrs degrades to
// applying the remote mode bits unmasked.
func umask() uint32 { return 0 }
