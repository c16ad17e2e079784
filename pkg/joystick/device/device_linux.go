package device

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

// JSIOCGNAME(len) with len 128.
const iocGName = 0x80806a13

type joystick struct {
	file  *os.File
	index int
	name  string
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.Open(fmt.Sprintf("/dev/input/js%d", index))
	if err != nil {
		return nil, err
	}
	var name [128]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), iocGName, uintptr(unsafe.Pointer(&name[0])))
	if errno != 0 {
		f.Close()
		return nil, fmt.Errorf("js%d name: %v", index, errno)
	}
	if n := bytes.IndexByte(name[:], 0); n >= 0 {
		return &joystick{file: f, index: index, name: string(name[:n])}, nil
	}
	return &joystick{file: f, index: index, name: string(name[:])}, nil
}

// DetectAndOpen opens the first joystick present with an index not
// less than from. It returns nil without error if there is none.
func DetectAndOpen(from int) (Device, error) {
	paths, err := filepath.Glob("/dev/input/js*")
	if err != nil {
		return nil, err
	}
	var indices []int
	for _, path := range paths {
		if index, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(path), "js")); err == nil && index >= from {
			indices = append(indices, index)
		}
	}
	sort.Ints(indices)
	for _, index := range indices {
		dev, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return dev, err
	}
	return nil, nil
}

func (j *joystick) Close() error { return j.file.Close() }
func (j *joystick) Index() int   { return j.index }
func (j *joystick) Name() string { return j.name }

func (j *joystick) ReadEvent() (Event, error) {
	var buf [eventSize]byte
	if _, err := io.ReadFull(j.file, buf[:]); err != nil {
		return nil, err
	}
	return decodeEvent(buf[:]), nil
}
