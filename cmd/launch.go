package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwalton/gchalk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blocklift/blocklift/internals/downloadmgr"
	"github.com/blocklift/blocklift/internals/java"
	"github.com/blocklift/blocklift/internals/launch"
	"github.com/blocklift/blocklift/internals/minecraft"
	"github.com/blocklift/blocklift/internals/natives"
)

var pipeText = lipgloss.NewStyle().
	Border(lipgloss.Border{Left: "│"}, false).
	BorderLeft(true).
	Padding(0, 1)

func init() {
	launchCmd.Flags().String("username", "Player", "player name for offline sessions")
	launchCmd.Flags().String("java", "", "path of the java executable (found via JAVA_HOME or PATH when unset)")
	launchCmd.Flags().Int("min-mem", 0, "jvm heap minimum in MiB")
	launchCmd.Flags().Int("max-mem", 0, "jvm heap maximum in MiB (0 sizes from system memory)")
	launchCmd.Flags().String("loader", "", "mod loader (fabric, quilt, forge)")
	launchCmd.Flags().String("loader-version", "", "mod loader version")
	launchCmd.Flags().Bool("dry-run", false, "print the command instead of running it")
	rootCmd.AddCommand(launchCmd)
}

var launchCmd = &cobra.Command{
	Use:   "launch <version>",
	Short: "Launch a version (downloading it first if needed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		instance := newInstance()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Println(pipeText.Render(gchalk.BgGray("Preparing " + id)))

		mgr := downloadmgr.New()
		mgr.Client = instance.HTTP
		mgr.Concurrency = viper.GetInt("downloadConcurrency")
		if err := instance.DownloadVersion(ctx, id, mgr); err != nil {
			return err
		}

		man, err := instance.Mojang.ResolveMetadata(id)
		if err != nil {
			return err
		}

		env := minecraft.CurrentEnv()
		nativesDir := instance.NativesDir(id)
		if err := natives.Extract(man.Libraries, env, instance.LibrariesDir(), nativesDir, id); err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")

		javaFlag, _ := cmd.Flags().GetString("java")
		javaBin, err := java.Locate(javaFlag)
		if err != nil {
			return err
		}
		if want := man.JavaVersion.MajorVersion; want != 0 {
			if have, err := java.MajorVersion(ctx, javaBin); err != nil {
				log.Printf("[WARN] could not check java version: %v", err)
			} else if have < want {
				log.Printf("[WARN] %s is java %d, version %s wants %d or newer", javaBin, have, id, want)
			}
		}

		minMem, _ := cmd.Flags().GetInt("min-mem")
		maxMem, _ := cmd.Flags().GetInt("max-mem")
		loader, _ := cmd.Flags().GetString("loader")
		loaderVersion, _ := cmd.Flags().GetString("loader-version")

		cfg := &launch.Config{
			Profile: &launch.Profile{
				Name:          username,
				VersionID:     id,
				MemoryMinMiB:  minMem,
				MemoryMaxMiB:  maxMem,
				Loader:        launch.LoaderType(loader),
				LoaderVersion: loaderVersion,
			},
			Manifest:        man,
			Auth:            launch.OfflineSession(username),
			JavaBin:         javaBin,
			GameDir:         instance.GlobalDir,
			AssetsDir:       instance.AssetsDir(),
			LibrariesDir:    instance.LibrariesDir(),
			VersionsDir:     instance.VersionsDir(),
			NativesDir:      nativesDir,
			Env:             os.Environ(),
			LauncherVersion: Version,
		}

		command, err := launch.Build(cfg)
		if err != nil {
			return err
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			fmt.Println(command.String())
			return nil
		}

		fmt.Println(pipeText.Render("Launching " + id))
		return runCommand(ctx, command)
	},
}

// runCommand hands the invocation to the os. Process supervision beyond
// wiring the stdio streams stays with the caller's shell
func runCommand(ctx context.Context, command *launch.Command) error {
	proc := exec.Command(command.Executable, command.Args...)
	proc.Dir = command.WorkingDir
	proc.Env = command.Env
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr

	if err := proc.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		proc.Process.Signal(os.Interrupt)
		return <-done
	}
}
