package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventscope/eventscope/pkg/fetch"
	"github.com/eventscope/eventscope/pkg/render"
	"github.com/eventscope/eventscope/pkg/scrape"
)

// buildFetcher returns the configured fetcher and, when the browser pool is
// in play, a cleanup func the caller must run on exit.
func buildFetcher(plain bool) (fetch.Fetcher, func(), error) {
	chromedriver := viper.GetString("chromedriver.path")
	if plain || chromedriver == "" {
		return fetch.NewPlainFetcher(), func() {}, nil
	}

	pool, err := render.NewPool(render.Config{
		ChromeDriverPath: chromedriver,
		Port:             viper.GetInt("chromedriver.port"),
		PoolSize:         viper.GetInt("render.pool_size"),
		SettleDelay:      time.Duration(viper.GetInt("render.settle_ms")) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("starting browser pool: %w", err)
	}
	return &fetch.RenderFetcher{Pool: pool}, pool.Close, nil
}

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a single event page and print the extracted record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		timeoutSec, _ := cmd.Flags().GetInt("timeout")
		if timeoutSec <= 0 {
			timeoutSec = viper.GetInt("scrape.timeout_sec")
		}

		fetcher, cleanup, err := buildFetcher(plain)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
		defer cancel()

		res, err := scrape.New(fetcher).Scrape(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().Bool("plain", false, "Fetch with a direct HTTP GET instead of a rendering browser")
	scrapeCmd.Flags().Int("timeout", 0, "Overall timeout in seconds (default from config)")
}
