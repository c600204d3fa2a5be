package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"notes-go/internal/app"
	"notes-go/internal/config"
	"notes-go/internal/diff"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file from the default location.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a NotesApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddNote", "Watch").
func newApp(operation string) (*app.NotesApp, *config.Config, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.NewNotesApp(cfg, operation)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, cfg, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

// readPassphrase prompts on stderr and reads a line without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:          "notes",
	Short:        "Local note store",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Println(success("Configuration initialized at " + defaults["config_path"]))
		fmt.Printf("Host ID:  %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, faint(cfg.Database.DataDir))
		fmt.Printf("Vault:      %s (%s)\n", cfg.Vault.Name, cfg.Vault.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Watch:      every %s\n", cfg.Watch.Interval)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the backup key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return errors.New("passphrases do not match")
		}

		if err := a.SetupKeys(pass); err != nil {
			return err
		}
		fmt.Println(success("Backup keys created"))
		return nil
	},
}

// add command
var addCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		a, _, err := newApp("AddNote")
		if err != nil {
			return err
		}
		defer a.Close()

		note, err := a.AddNote(args[0], description)
		if err != nil {
			return fmt.Errorf("adding note: %w", err)
		}
		printNoteLine(os.Stdout, note)
		return nil
	},
}

// edit command
var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var title, description *string
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			description = &v
		}
		if title == nil && description == nil {
			return errors.New("nothing to change: pass --title and/or --description")
		}

		a, _, err := newApp("EditNote")
		if err != nil {
			return err
		}
		defer a.Close()

		note, err := a.EditNote(id, title, description)
		if err != nil {
			return fmt.Errorf("editing note: %w", err)
		}
		printNote(os.Stdout, note)
		return nil
	},
}

// rm command
var rmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, _, err := newApp("RemoveNote")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveNote(id); err != nil {
			return fmt.Errorf("deleting note: %w", err)
		}
		fmt.Println(success(fmt.Sprintf("Deleted note %d", id)))
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, _, err := newApp("ShowNote")
		if err != nil {
			return err
		}
		defer a.Close()

		note, err := a.ShowNote(id)
		if err != nil {
			return err
		}
		printNote(os.Stdout, note)
		return nil
	},
}

// ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp("ListNotes")
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.ListNotes()
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for _, n := range list {
			printNoteLine(os.Stdout, n)
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes to the note list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		interval, err := cfg.Watch.PollInterval()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("interval") {
			interval, _ = cmd.Flags().GetDuration("interval")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println(faint(fmt.Sprintf("Watching notes every %s, Ctrl-C to stop", interval)))
		return a.Watch(ctx, interval,
			func(op diff.Op) { printChange(os.Stdout, op) },
			func(err error) { fmt.Fprintln(os.Stderr, red("error: ")+err.Error()) },
		)
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload an encrypted database snapshot to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Println(success(fmt.Sprintf("Backup uploaded (version %d)", version)))
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the local database with the latest backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}

		if err := a.Restore(pass); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Println(success("Database restored"))
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the note database",
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the note table (deletes all notes)",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Println(yellow("This deletes every note and cannot be undone."))
			return errors.New("refusing to reset without --force")
		}

		a, _, err := newApp("ResetDatabase")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ResetDatabase(); err != nil {
			return err
		}
		fmt.Println(success("Database reset"))
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// db subcommands
	dbCmd.AddCommand(dbResetCmd)
	dbResetCmd.Flags().Bool("force", false, "Confirm that all notes should be deleted")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("description", "d", "", "Note description")
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description")
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", config.DefaultWatchInterval, "Reload interval")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
