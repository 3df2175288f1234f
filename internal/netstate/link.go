package netstate

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultEnvFile is where pi-helper publishes network state.
const DefaultEnvFile = "/run/pi-helper.env"

// EnvFileLink reads link state from a KEY=VALUE file rewritten by the
// host's network helper. The file is re-read on every check; keys map onto
// Info through its env tags.
type EnvFileLink struct {
	Path string
}

// Check parses the file. A missing file means no helper is running.
func (l *EnvFileLink) Check() (Info, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer f.Close()

	vals := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vals[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"'`)
	}
	if err := sc.Err(); err != nil {
		return Info{}, fmt.Errorf("read %s: %w", l.Path, err)
	}

	var info Info
	if err := env.ParseWithOptions(&info, env.Options{Environment: vals}); err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", l.Path, err)
	}
	switch strings.ToLower(info.Status) {
	case "connected", "online", "up":
		info.Connected = true
	}
	return info, nil
}

// InterfaceLink treats the link as up when the interface is up and holds a
// global unicast address.
type InterfaceLink struct {
	Name string
}

func (l *InterfaceLink) Check() (Info, error) {
	iface, err := net.InterfaceByName(l.Name)
	if err != nil {
		return Info{}, fmt.Errorf("interface %s: %w", l.Name, err)
	}
	info := Info{Type: l.Name, Status: "down"}
	if iface.Flags&net.FlagUp == 0 {
		return info, nil
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return info, fmt.Errorf("interface %s addrs: %w", l.Name, err)
	}
	for _, a := range addrs {
		ipn, ok := a.(*net.IPNet)
		if !ok || !ipn.IP.IsGlobalUnicast() {
			continue
		}
		info.IP = ipn.IP.String()
		info.Status = "connected"
		info.Connected = true
		if ipn.IP.To4() != nil {
			break
		}
	}
	return info, nil
}

// ErrNoHardwareAddr is returned when no interface carries a MAC address.
var ErrNoHardwareAddr = errors.New("netstate: no hardware address")

// HardwareAddr returns the MAC of the named interface, or of the first
// non-loopback interface with one when name is empty.
func HardwareAddr(name string) (string, error) {
	if name != "" {
		iface, err := net.InterfaceByName(name)
		if err != nil {
			return "", fmt.Errorf("interface %s: %w", name, err)
		}
		if len(iface.HardwareAddr) == 0 {
			return "", fmt.Errorf("%w on %s", ErrNoHardwareAddr, name)
		}
		return strings.ToUpper(iface.HardwareAddr.String()), nil
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return strings.ToUpper(iface.HardwareAddr.String()), nil
	}
	return "", ErrNoHardwareAddr
}
