package collector

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jlaffaye/ftp"
)

// Uploader ships a snapshot file to its destination. Uploads are whole-file
// and last-write-wins.
type Uploader interface {
	Upload(name string, data []byte) error
}

// FTPUploader uploads snapshots to the operator's file server.
type FTPUploader struct {
	addr     string
	user     string
	password string
	dir      string
	timeout  time.Duration
}

func NewFTPUploader(addr, user, password, dir string) *FTPUploader {
	return &FTPUploader{
		addr:     addr,
		user:     user,
		password: password,
		dir:      dir,
		timeout:  30 * time.Second,
	}
}

// Upload stores one file, reconnecting per call. Snapshot uploads are
// minutes apart, so holding a control connection open buys nothing and the
// server side drops idle sessions anyway.
func (u *FTPUploader) Upload(name string, data []byte) error {
	conn, err := ftp.Dial(u.addr, ftp.DialWithTimeout(u.timeout))
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(u.user, u.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if u.dir != "" {
		if err := conn.ChangeDir(u.dir); err != nil {
			return fmt.Errorf("cd %s: %w", u.dir, err)
		}
	}
	if err := conn.Stor(name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("stor %s: %w", name, err)
	}
	return nil
}
