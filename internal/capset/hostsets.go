package capset

import "github.com/syndtr/gocapability/capability"

// All returns the full capability set supported by the running kernel
// ("AllCapabilities" of §4.2).
func All() Set {
	var s Set
	for _, c := range capability.List() {
		if uint(c) < 64 {
			s |= 1 << uint(c)
		}
	}
	return s
}

// osModeNames and suidModeNames mirror the "high"/"medium" style capability
// lists the teacher's nsinit/security.go hands to a VirtMode=Os vs a plain
// suid-launched process: an Os container gets the broader set needed to run
// an init system, a Suid (App) container gets only what a setuid-root
// helper traditionally retains.
var osModeNames = []string{
	"CHOWN", "DAC_OVERRIDE", "FSETID", "FOWNER", "KILL", "SETGID", "SETUID",
	"SETPCAP", "NET_BIND_SERVICE", "NET_ADMIN", "NET_RAW", "SYS_CHROOT",
	"SYS_PTRACE", "SYS_ADMIN", "SYS_RESOURCE", "SYS_BOOT", "MKNOD", "AUDIT_WRITE",
	"SETFCAP",
}

var suidModeNames = []string{
	"CHOWN", "DAC_OVERRIDE", "FSETID", "FOWNER", "KILL", "SETGID", "SETUID",
	"NET_BIND_SERVICE", "NET_RAW", "SYS_CHROOT", "MKNOD", "AUDIT_WRITE", "SETFCAP",
}

func namesToSet(names []string) Set {
	var s Set
	for _, n := range names {
		bit, ok := nameToBit[n]
		if ok {
			s |= 1 << bit
		}
	}
	return s
}

// OsMode returns the capability set granted by default to a VirtMode=Os
// container ("OsModeCapabilities" of §4.2).
func OsMode() Set { return namesToSet(osModeNames) }

// SuidMode returns the capability set granted by default to a non-Os,
// non-superuser container ("SuidCapabilities" of §4.2).
func SuidMode() Set { return namesToSet(suidModeNames) }
