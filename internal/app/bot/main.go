package bot

import (
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aurimasl/voxpense/internal/pkg/audio"
	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	"github.com/aurimasl/voxpense/internal/pkg/extractor"
	"github.com/aurimasl/voxpense/internal/pkg/notion"
	"github.com/aurimasl/voxpense/internal/pkg/telegram"
	"github.com/aurimasl/voxpense/internal/pkg/transcriber"
)

var appName = "Voxpense Bot Service"

var rootCmd = &cobra.Command{
	Use:   "botService",
	Short: appName,
	Long:  `Telegram bot to turn voice notes into Notion expense records`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.tmp/")
	cmdapp.Config.SetDefault("openai.sttModel", "whisper-1")
	cmdapp.Config.SetDefault("openai.model", "gpt-4o-mini")
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	data := &ServiceData{}
	err := initMetrics(data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.health = healthcheck.NewHandler()

	tc, err := telegram.NewClient(getMandatory("telegram.token"))
	cmdapp.CheckOrPanic(err, "Can't init telegram client")
	defer tc.Close()
	data.URLResolver = tc
	data.Sender = tc
	data.VoiceCh = tc.VoiceEvents()

	rt, err := audio.NewRetriever(cmdapp.Config.GetString("fileStorage.path"))
	cmdapp.CheckOrPanic(err, "Can't init audio storage")
	data.Retriever = rt
	data.health.AddLivenessCheck("fs", rt.HealthyFunc())

	openaiKey := getMandatory("openai.api.key")
	data.Transcriber, err = transcriber.NewClient(openaiKey, cmdapp.Config.GetString("openai.sttModel"))
	cmdapp.CheckOrPanic(err, "Can't init transcriber")

	data.Extractor, err = extractor.NewClient(openaiKey, cmdapp.Config.GetString("openai.model"))
	cmdapp.CheckOrPanic(err, "Can't init extractor")

	data.RecordSaver, err = notion.NewSaver(getMandatory("notion.api.key"),
		getMandatory("notion.database.id"))
	cmdapp.CheckOrPanic(err, "Can't init notion saver")

	data.Port = cmdapp.Config.GetInt("port")

	_, err = StartVoiceListener(data)
	cmdapp.CheckOrPanic(err, "Can't start voice listener")

	err = StartWebServer(data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func getMandatory(key string) string {
	res := cmdapp.Config.GetString(key)
	if res == "" {
		cmdapp.CheckOrPanic(errors.New("No "+key+" configured"), "")
	}
	return res
}
