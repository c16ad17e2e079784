package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the machine ID so it does not expose the raw host ID.
const AppID = "linetracer"

// MachineID retrieves the unique ID identifying the machine. It falls
// back to the host name where no machine ID is available, e.g. in
// minimal containers.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
