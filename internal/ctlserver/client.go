package ctlserver

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// callTimeout bounds one full control round trip. Calls are local and tiny;
// anything slower means the host is gone.
const callTimeout = 5 * time.Second

// Call dials the control socket, issues one operation, and returns the raw
// reply string.
func Call(socket, op string, args ...string) (string, error) {
	conn, err := net.DialTimeout("unix", socket, callTimeout)
	if err != nil {
		return "", fmt.Errorf("ctlserver: dial %s: %w", socket, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(callTimeout))

	line := op
	if len(args) > 0 {
		line += "\t" + strings.Join(args, "\t")
	}
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return "", fmt.Errorf("ctlserver: write request: %w", err)
	}
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("ctlserver: read reply: %w", err)
	}
	return string(reply), nil
}
