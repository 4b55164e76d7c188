package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scriptbench/scriptbench/config"
	"github.com/scriptbench/scriptbench/logging"
	"github.com/scriptbench/scriptbench/server"
	"github.com/scriptbench/scriptbench/storage"
)

var (
	serveAddr    string
	serveDB      string
	serveUploads string
	serveReports string
	serveDebug   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload and analysis web service",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.Init(serveDebug)
		defer log.Sync()

		cfg := config.Default()
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}
		if serveDB != "" {
			cfg.DBPath = serveDB
		}
		if serveUploads != "" {
			cfg.UploadDir = serveUploads
		}
		if serveReports != "" {
			cfg.ReportsDir = serveReports
		}

		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		return server.New(cfg, store, log).ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default :8080)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Path to the sqlite database")
	serveCmd.Flags().StringVar(&serveUploads, "uploads", "", "Directory for uploaded scripts")
	serveCmd.Flags().StringVar(&serveReports, "reports", "", "Directory for rendered reports")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}
