// Package systemd generates the service and timer units that run the
// weekly archive on a schedule.
package systemd

import (
	"fmt"
	"strings"
)

const (
	DefaultUnitDir    = "/etc/systemd/system"
	DefaultBinary     = "/usr/bin/velarchiver"
	DefaultConfigPath = "/etc/velarchiver/config.yaml"

	// DefaultOnCalendar runs the archive early Sunday morning.
	DefaultOnCalendar = "Sun *-*-* 02:00:00"

	ServiceUnit = "velarchiver.service"
	TimerUnit   = "velarchiver.timer"
)

// hardening is the sandbox directive set applied when requested. The
// address families stay open for S3 traffic.
var hardening = []string{
	"ProtectSystem=full",
	"ProtectHome=read-only",
	"PrivateTmp=yes",
	"NoNewPrivileges=yes",
	"ProtectKernelTunables=yes",
	"ProtectKernelModules=yes",
	"ProtectControlGroups=yes",
	"RestrictRealtime=yes",
	"RestrictSUIDSGID=yes",
	"LockPersonality=yes",
	"RestrictAddressFamilies=AF_UNIX AF_INET AF_INET6",
}

type GeneratorOptions struct {
	Binary        string
	ConfigPath    string
	UnitDir       string
	OnCalendar    string
	JitterMinutes int
	Hardening     bool
}

type GeneratedUnits struct {
	Service string
	Timer   string
}

func Generate(opts GeneratorOptions) *GeneratedUnits {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfigPath
	}
	if opts.OnCalendar == "" {
		opts.OnCalendar = DefaultOnCalendar
	}
	return &GeneratedUnits{
		Service: renderService(opts),
		Timer:   renderTimer(opts),
	}
}

func renderService(opts GeneratorOptions) string {
	lines := []string{
		"[Unit]",
		"Description=VelArchiver weekly bucket archive",
		"After=network-online.target",
		"Wants=network-online.target",
		"",
		"[Service]",
		"Type=oneshot",
		fmt.Sprintf("ExecStart=%s run", opts.Binary),
		"Environment=VELARCHIVER_CONFIG=" + opts.ConfigPath,
	}
	if opts.Hardening {
		lines = append(lines, hardening...)
	}
	lines = append(lines,
		"",
		"[Install]",
		"WantedBy=multi-user.target",
		"",
	)
	return strings.Join(lines, "\n")
}

func renderTimer(opts GeneratorOptions) string {
	lines := []string{
		"[Unit]",
		"Description=VelArchiver weekly archive timer",
		"Requires=" + ServiceUnit,
		"",
		"[Timer]",
		"OnCalendar=" + opts.OnCalendar,
	}
	if opts.JitterMinutes > 0 {
		lines = append(lines, fmt.Sprintf("RandomizedDelaySec=%d", opts.JitterMinutes*60))
	}
	lines = append(lines,
		"Persistent=yes",
		"",
		"[Install]",
		"WantedBy=timers.target",
		"",
	)
	return strings.Join(lines, "\n")
}
