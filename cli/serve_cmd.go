package cli

import (
	"os"

	"germplasm-accession-importer/domain/importjob"
	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/repository/neograph"
	"germplasm-accession-importer/server"
	"germplasm-accession-importer/utils/email"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP import service and the job queue consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := loadConfig(root)
			if err != nil {
				return err
			}
			if port != 0 {
				appConfig.Server.Port = port
			}

			if err := initImporter(appConfig); err != nil {
				return err
			}

			uploadDir := appConfig.Server.UploadDir
			if uploadDir == "" {
				uploadDir = os.TempDir()
			}
			appConfig.Job.UploadDir = uploadDir
			appConfig.Job.AllowedDirs = append(appConfig.Job.AllowedDirs, appConfig.Server.InputDir)

			email.Init(&appConfig.Email)

			neograph.Init(&appConfig.Graph)
			defer neograph.Close()

			importjob.Init(&appConfig.Job)
			defer importjob.Close()

			logger := logging.NewLogger()
			logger.Infof("serve on %s:%d", appConfig.Server.Host, appConfig.Server.Port)

			err = server.New(&appConfig.Server).RunServer()
			if err != nil {
				logger.WithError(err).Errorf("run server error=\n%v", err)
				return withCode(exitFailure, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Override the listening port")

	return cmd
}
