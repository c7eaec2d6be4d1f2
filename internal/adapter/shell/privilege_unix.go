//go:build !windows

package shell

import "os"

func elevated() bool {
	return os.Geteuid() == 0
}
