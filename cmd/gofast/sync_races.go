package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gofast-app/gofast/internal/races"
	"github.com/gofast-app/gofast/internal/store"
)

var syncRacesCmd = &cobra.Command{
	Use:   "sync-races",
	Short: "Fetch upcoming races for a city and cache them in the registry",
	Long:  "Query the race aggregator for upcoming races near a city and upsert the results into the race registry table.",
	RunE:  runSyncRaces,
}

var (
	syncCity   string
	syncState  string
	syncRadius int
	syncMonths int
)

func init() {
	syncRacesCmd.Flags().StringVar(&syncCity, "city", "", "City to search around (required)")
	syncRacesCmd.Flags().StringVar(&syncState, "state", "", "Two-letter state code")
	syncRacesCmd.Flags().IntVar(&syncRadius, "radius", 25, "Search radius in miles")
	syncRacesCmd.Flags().IntVar(&syncMonths, "months", 6, "How many months ahead to search")
	_ = syncRacesCmd.MarkFlagRequired("city")

	rootCmd.AddCommand(syncRacesCmd)
}

func runSyncRaces(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	client := races.NewClient(os.Getenv("RACE_API_URL"), os.Getenv("RACE_API_KEY"))

	now := time.Now()
	to := now.AddDate(0, syncMonths, 0)
	found, err := client.SearchRaces(ctx, races.Query{
		City:        syncCity,
		State:       syncState,
		RadiusMiles: syncRadius,
		From:        &now,
		To:          &to,
	})
	if err != nil {
		return fmt.Errorf("race search failed: %w", err)
	}

	stored := 0
	for i := range found {
		race := &store.Race{
			ExternalID: found[i].ExternalID,
			Name:       found[i].Name,
			City:       found[i].City,
			State:      found[i].State,
			StartDate:  found[i].StartDate,
		}
		if found[i].Distance != "" {
			race.Distance = &found[i].Distance
		}
		if found[i].URL != "" {
			race.URL = &found[i].URL
		}
		if _, err := st.UpsertRace(ctx, race); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to store race %s: %v\n", found[i].ExternalID, err)
			continue
		}
		stored++
	}

	fmt.Printf("Synced %d of %d races for %s\n", stored, len(found), syncCity)
	return nil
}
