package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventscope/eventscope/internal/server"
	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/scrape"
	"github.com/eventscope/eventscope/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scraping API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		plain, _ := cmd.Flags().GetBool("plain")

		fetcher, cleanup, err := buildFetcher(plain)
		if err != nil {
			return err
		}
		defer cleanup()

		var db *storage.DB
		if path := viper.GetString("db.path"); path != "" {
			absPath, err := utils.GetAbsDBPath(path)
			if err != nil {
				return err
			}
			db, err = storage.Open(absPath)
			if err != nil {
				return err
			}
			defer db.Close()
		} else {
			utils.Log.Warn("no db.path configured, submissions will not be stored")
		}

		srv := server.New(db, scrape.New(fetcher),
			viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Bool("plain", false, "Fetch with direct HTTP GETs instead of a rendering browser")
}
