/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bytegauge/bytegauge/pkg/config"
)

const systemdUnitPath = "/etc/systemd/system/bytegauge.service"

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage ByteGauge as a systemd service",
	Long: `Manage ByteGauge as a systemd service. This command provides
native integration with systemd for production deployments.

The service will be installed with proper security settings and
automatic restart on failure.`,
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install ByteGauge as a systemd service",
	Long: `Install ByteGauge as a systemd service with proper configuration.

This will:
- Create or use existing configuration
- Generate systemd unit file
- Enable and optionally start the service

Examples:
  bytegauge service install
  bytegauge service install --data-dir /var/lib/bytegauge --user bytegauge`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		user, _ := cmd.Flags().GetString("user")
		port, _ := cmd.Flags().GetInt("port")
		startNow, _ := cmd.Flags().GetBool("start")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		// systemd operations need root
		if os.Geteuid() != 0 {
			cmd.Printf("Error: service install requires root privileges\n")
			cmd.Printf("Run with: sudo bytegauge service install\n")
			os.Exit(1)
		}

		cmd.Printf("Installing ByteGauge systemd service...\n")

		var cfg *config.Config
		var err error

		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cmd.Printf("Loaded existing configuration\n")
		} else {
			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return fmt.Errorf("failed to bootstrap config: %w", err)
			}
			cmd.Printf("Created new configuration at %s\n", configPath)
		}

		// Override config with flags
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if port != 0 {
			cfg.Port = port
		}

		if err := config.SaveConfig(cfg, configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if err := createSystemdUnit(cfg, configPath, user); err != nil {
			return fmt.Errorf("failed to create systemd unit: %w", err)
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		if err := runSystemctlCommand("enable", "bytegauge.service"); err != nil {
			return fmt.Errorf("failed to enable service: %w", err)
		}
		cmd.Printf("Service enabled\n")

		if startNow {
			if err := runSystemctlCommand("start", "bytegauge.service"); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			cmd.Printf("Service started\n")
		}

		cmd.Printf("\nByteGauge service installed\n")
		cmd.Printf("Service: bytegauge.service\n")
		cmd.Printf("Config: %s\n", configPath)
		cmd.Printf("Data: %s\n", cfg.DataDir)
		cmd.Printf("Port: %d\n", cfg.Port)

		if !startNow {
			cmd.Printf("\nTo start the service: sudo systemctl start bytegauge.service\n")
		}
		cmd.Printf("To check status: sudo systemctl status bytegauge.service\n")
		cmd.Printf("To view logs: sudo journalctl -u bytegauge.service -f\n")
		return nil
	},
}

// startServiceCmd represents the service start command
var startServiceCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ByteGauge service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("start", "bytegauge.service"); err != nil {
			return err
		}
		cmd.Printf("ByteGauge service started\n")
		return nil
	},
}

// stopServiceCmd represents the service stop command
var stopServiceCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the ByteGauge service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("stop", "bytegauge.service"); err != nil {
			return err
		}
		cmd.Printf("ByteGauge service stopped\n")
		return nil
	},
}

// restartServiceCmd represents the service restart command
var restartServiceCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the ByteGauge service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("restart", "bytegauge.service"); err != nil {
			return err
		}
		cmd.Printf("ByteGauge service restarted\n")
		return nil
	},
}

// statusServiceCmd represents the service status command
var statusServiceCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ByteGauge service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctlCommand("status", "bytegauge.service")
	},
}

// logsServiceCmd represents the service logs command
var logsServiceCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show ByteGauge service logs",
	Long: `Show ByteGauge service logs using journalctl.

Examples:
  bytegauge service logs
  bytegauge service logs -f  # Follow logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		journalArgs := []string{"-u", "bytegauge.service"}
		if follow {
			journalArgs = append(journalArgs, "-f")
		}
		if lines > 0 {
			journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
		}

		return runCommand("journalctl", journalArgs...)
	},
}

// uninstallServiceCmd represents the service uninstall command
var uninstallServiceCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the ByteGauge service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			cmd.Printf("Error: service uninstall requires root privileges\n")
			cmd.Printf("Run with: sudo bytegauge service uninstall\n")
			os.Exit(1)
		}

		cmd.Printf("Uninstalling ByteGauge service...\n")

		// Stop service first; ignore errors if already stopped
		_ = runSystemctlCommand("stop", "bytegauge.service")

		if err := runSystemctlCommand("disable", "bytegauge.service"); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		if _, err := os.Stat(systemdUnitPath); err == nil {
			if err := os.Remove(systemdUnitPath); err != nil {
				return fmt.Errorf("failed to remove unit file: %w", err)
			}
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		cmd.Printf("ByteGauge service uninstalled\n")
		cmd.Printf("Note: Configuration and data files were not removed\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(startServiceCmd)
	serviceCmd.AddCommand(stopServiceCmd)
	serviceCmd.AddCommand(restartServiceCmd)
	serviceCmd.AddCommand(statusServiceCmd)
	serviceCmd.AddCommand(logsServiceCmd)
	serviceCmd.AddCommand(uninstallServiceCmd)

	installServiceCmd.Flags().String("data-dir", "/var/lib/bytegauge", "Data directory for the service")
	installServiceCmd.Flags().String("user", "bytegauge", "User to run the service as")
	installServiceCmd.Flags().Int("port", 0, "Port for the service")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsServiceCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsServiceCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// systemdUnit renders the unit file contents for the given configuration.
func systemdUnit(cfg *config.Config, configPath, user string) string {
	return fmt.Sprintf(`[Unit]
Description=ByteGauge Server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=/usr/local/bin/bytegauge up --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, configPath, cfg.DataDir, filepath.Dir(configPath))
}

// createSystemdUnit creates the systemd unit file
func createSystemdUnit(cfg *config.Config, configPath, user string) error {
	return os.WriteFile(systemdUnitPath, []byte(systemdUnit(cfg, configPath, user)), 0600)
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
