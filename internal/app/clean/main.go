package clean

import (
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/spf13/cobra"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
)

var appName = "Voxpense Clean Service"

var rootCmd = &cobra.Command{
	Use:   "cleanService",
	Short: appName,
	Long:  `Service to drop orphaned audio artifacts from local storage`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.tmp/")
	cmdapp.Config.SetDefault("cleaner.runEvery", 10*time.Minute)
	cmdapp.Config.SetDefault("cleaner.maxAge", 2*time.Hour)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	cleaner, err := newFileCleaner(cmdapp.Config.GetString("fileStorage.path"),
		cmdapp.Config.GetDuration("cleaner.maxAge"))
	cmdapp.CheckOrPanic(err, "Can't init cleaner")

	td := &timerServiceData{runEvery: cmdapp.Config.GetDuration("cleaner.runEvery"),
		cleaner: cleaner, qChan: make(chan struct{}), workWaitChan: make(chan struct{})}
	err = startCleanTimer(td)
	cmdapp.CheckOrPanic(err, "Can't start timer")

	data := &ServiceData{}
	data.Port = cmdapp.Config.GetInt("port")
	data.health = healthcheck.NewHandler()
	go func() { cmdapp.LogIf(StartWebServer(data)) }()

	fc := cmdapp.NewSignalChannel()
	<-fc
	close(td.qChan)
	<-td.workWaitChan
	cmdapp.Log.Info("Exiting " + appName)
}
