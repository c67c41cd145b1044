//go:build !cgo

package platform

func NewWindow() (Platform, error) {
	return nil, ErrNoWindowSystem
}
