package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fareflow/fareflow/internal/cli"
	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/dataset"
	"github.com/fareflow/fareflow/internal/estimator"
	"github.com/fareflow/fareflow/internal/model"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate a rental price from the command line",
		Long: `Load the published model artifact and print a price estimate for
the given trip. Day-of-week values use 0 = Monday through 6 = Sunday;
months are 1 through 12.`,
		RunE: runPredict,
	}

	cmd.Flags().String("brand", "", "Vehicle brand (required)")
	cmd.Flags().String("model", "", "Vehicle model (required)")
	cmd.Flags().String("city", "", "Pickup city (required)")
	cmd.Flags().Float64("seats", 4, "Seat count")
	cmd.Flags().Float64("pickup-day", 0, "Pickup day of week (0 = Monday)")
	cmd.Flags().Float64("pickup-month", 1, "Pickup month (1-12)")
	cmd.Flags().Float64("dropoff-day", 0, "Dropoff day of week (0 = Monday)")
	cmd.Flags().Float64("dropoff-month", 1, "Dropoff month (1-12)")
	cmd.Flags().Float64("credit-score", dataset.DefaultCreditScore, "Renter credit score")

	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("city")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	artifacts, err := initArtifactStore()
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	art, err := artifacts.Load(ctx, "")
	if err != nil {
		return common.NewUserError("no trained model available, run `fareflow train` first", err)
	}

	est, err := estimator.NewFromArtifact(art)
	if err != nil {
		return err
	}

	brand, _ := cmd.Flags().GetString("brand")
	vehicleModel, _ := cmd.Flags().GetString("model")
	city, _ := cmd.Flags().GetString("city")
	seats, _ := cmd.Flags().GetFloat64("seats")
	pickupDay, _ := cmd.Flags().GetFloat64("pickup-day")
	pickupMonth, _ := cmd.Flags().GetFloat64("pickup-month")
	dropoffDay, _ := cmd.Flags().GetFloat64("dropoff-day")
	dropoffMonth, _ := cmd.Flags().GetFloat64("dropoff-month")
	creditScore, _ := cmd.Flags().GetFloat64("credit-score")

	result, err := est.Predict(model.FeatureVector{
		Brand:        brand,
		Model:        vehicleModel,
		PickupCity:   city,
		Seats:        seats,
		PickupDow:    pickupDay,
		PickupMonth:  pickupMonth,
		DropoffDow:   dropoffDay,
		DropoffMonth: dropoffMonth,
		CreditScore:  creditScore,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n",
		cli.SubtleStyle.Render("estimated price:"),
		cli.ValueStyle.Render(fmt.Sprintf("$%.2f", result.EstimatedPrice)))

	return nil
}
