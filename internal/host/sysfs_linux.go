//go:build linux

package host

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// HCIGETDEVINFO = _IOR('H', 211, int)
const hciGetDevInfo = 0x800448d3

// struct hci_dev_info のサイズと features のオフセット
const (
	hciDevInfoSize     = 92
	hciFeaturesOffset  = 21
	lmpLEFeatureByte   = 4
	lmpLEFeatureBitMsk = 0x40
)

// カーネルのHCIソケット経由で使うコントローラ (hciN)
type SysfsHost struct {
	DeviceID int

	root     string
	features func(id int) ([8]byte, error)
	device
}

func NewSysfsHost(id int, advInterval time.Duration) *SysfsHost {
	return &SysfsHost{
		DeviceID: id,
		root:     "/sys",
		features: hciDevFeatures,
		device:   newDevice(id, advInterval),
	}
}

func (h *SysfsHost) name() string {
	return fmt.Sprintf("hci%d", h.DeviceID)
}

func (h *SysfsHost) OSVersion() (Version, error) {
	return KernelVersion()
}

// コントローラが存在し、LEに対応しているか
func (h *SysfsHost) HasLE() (bool, error) {
	_, err := os.Stat(filepath.Join(h.root, "class", "bluetooth", h.name()))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	f, err := h.features(h.DeviceID)
	if err != nil {
		return false, fmt.Errorf("read %s features: %w", h.name(), err)
	}
	return hasLEFeature(f), nil
}

// rfkillでブロックされていないか
func (h *SysfsHost) AdapterEnabled() (bool, error) {
	dirs, err := filepath.Glob(filepath.Join(h.root, "class", "rfkill", "rfkill*"))
	if err != nil {
		return false, err
	}
	for _, dir := range dirs {
		if readAttr(dir, "type") != "bluetooth" || readAttr(dir, "name") != h.name() {
			continue
		}
		if readAttr(dir, "soft") == "1" || readAttr(dir, "hard") == "1" {
			return false, nil
		}
	}
	return true, nil
}

func readAttr(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// 一度も電源が入っていないコントローラはfeaturesが全部0なので対応とみなす
func hasLEFeature(f [8]byte) bool {
	if f == [8]byte{} {
		return true
	}
	return f[lmpLEFeatureByte]&lmpLEFeatureBitMsk != 0
}

// LMPのfeaturesをioctlで取得
func hciDevFeatures(id int) ([8]byte, error) {
	var f [8]byte
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return f, fmt.Errorf("hci socket: %w", err)
	}
	defer unix.Close(fd)

	var info [hciDevInfoSize]byte
	binary.NativeEndian.PutUint16(info[0:2], uint16(id))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), hciGetDevInfo, uintptr(unsafe.Pointer(&info[0])))
	if errno != 0 {
		return f, fmt.Errorf("HCIGETDEVINFO: %w", errno)
	}
	copy(f[:], info[hciFeaturesOffset:hciFeaturesOffset+8])
	return f, nil
}
