package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicbill/console/internal/api"
	"github.com/clinicbill/console/internal/config"
	"github.com/clinicbill/console/internal/domain/profile"
	"github.com/clinicbill/console/internal/domain/transaction"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-console",
		Short: "Clinic billing console",
	}

	rootCmd.AddCommand(transactionCmd("payment", transaction.KindPayment))
	rootCmd.AddCommand(transactionCmd("refund", transaction.KindRefund))
	rootCmd.AddCommand(profileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func newClient(cfg *config.Config, logger zerolog.Logger) *api.Client {
	opts := []api.Option{api.WithLogger(logger)}
	if cfg.APIToken != "" {
		opts = append(opts, api.WithToken(cfg.APIToken))
	}
	if cfg.HTTPTimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second))
	}
	return api.New(cfg.APIBaseURL, opts...)
}

func setup() (*config.Config, zerolog.Logger, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)
	return cfg, logger, newClient(cfg, logger), nil
}

// splitAssignment parses a field=value pair from --set.
func splitAssignment(arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid assignment %q, expected field=value", arg)
	}
	return name, value, nil
}

func transactionCmd(name string, kind transaction.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Work with %s records", name),
	}

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Edit a %s record", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			mode, _ := cmd.Flags().GetString("mode")

			_, logger, client, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			sess := transaction.NewEditSession(client, kind, args[0], logger)
			if err := sess.Load(ctx); err != nil {
				return err
			}

			if mode != "" {
				if err := sess.SetMode(transaction.Mode(mode)); err != nil {
					return err
				}
			}
			for _, arg := range sets {
				field, value, err := splitAssignment(arg)
				if err != nil {
					return err
				}
				if err := sess.SetField(field, value); err != nil {
					return err
				}
			}

			if len(sets) == 0 && mode == "" {
				printFields(sess.Fields(), kind)
				return nil
			}

			nav, err := sess.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Updated. Next: %s (refresh)\n", nav.Path)
			return nil
		},
	}
	editCmd.Flags().StringArray("set", nil, "Set a field, e.g. --set amount=100")
	editCmd.Flags().String("mode", "", "Payment mode: Cash, Cheque, BankTransfer or UPI")
	cmd.AddCommand(editCmd)

	return cmd
}

func printFields(f transaction.Fields, kind transaction.Kind) {
	fmt.Printf("%-14s %s\n", "amount", f.Amount)
	fmt.Printf("%-14s %s\n", "mode", f.Mode)
	fmt.Printf("%-14s %s\n", kind.DateKey(), f.Date)
	fmt.Printf("%-14s %s\n", "referenceNo", f.ReferenceNo)
	fmt.Printf("%-14s %s\n", "drawnOn", f.DrawnOn)
	fmt.Printf("%-14s %s\n", "drawnAs", f.DrawnAs)
	switch f.Mode {
	case transaction.ModeCheque:
		fmt.Printf("%-14s %s\n", "chequeDate", f.ChequeDate)
		fmt.Printf("%-14s %s\n", "chequeNumber", f.ChequeNumber)
		fmt.Printf("%-14s %s\n", "bankName", f.BankName)
	case transaction.ModeBankTransfer:
		fmt.Printf("%-14s %s\n", "transferType", f.TransferType)
		fmt.Printf("%-14s %s\n", "transferDate", f.TransferDate)
		fmt.Printf("%-14s %s\n", "bankName", f.BankName)
	case transaction.ModeUPI:
		fmt.Printf("%-14s %s\n", "upiName", f.UPIName)
		fmt.Printf("%-14s %s\n", "upiId", f.UPIID)
		fmt.Printf("%-14s %s\n", "upiDate", f.UPIDate)
	}
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Work with the clinic profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the clinic profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}

			sess := profile.NewSession(client, logger)
			if err := sess.Load(context.Background()); err != nil {
				return err
			}
			if sess.Mode() == profile.ModeCreating {
				fmt.Println(sess.Notice())
				return nil
			}
			printProfile(sess.Fields())
			return nil
		},
	}
	cmd.AddCommand(showCmd)

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update the clinic profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")

			_, logger, client, err := setup()
			if err != nil {
				return err
			}

			ctx := context.Background()
			sess := profile.NewSession(client, logger)
			if err := sess.Load(ctx); err != nil {
				return err
			}
			if sess.Mode() == profile.ModeViewing {
				if err := sess.StartEdit(); err != nil {
					return err
				}
			}
			for _, arg := range sets {
				field, value, err := splitAssignment(arg)
				if err != nil {
					return err
				}
				if err := sess.SetField(field, value); err != nil {
					return err
				}
			}
			if err := sess.Save(ctx); err != nil {
				return err
			}
			fmt.Println("Profile saved.")
			return nil
		},
	}
	saveCmd.Flags().StringArray("set", nil, "Set a field, e.g. --set clinicName=\"City Clinic\"")
	cmd.AddCommand(saveCmd)

	return cmd
}

func printProfile(p profile.Profile) {
	rows := []struct{ name, value string }{
		{"clinicName", p.ClinicName},
		{"address", p.Address},
		{"pan", p.PAN},
		{"regNo", p.RegNo},
		{"doctor1Name", p.Doctor1Name},
		{"doctor1RegNo", p.Doctor1RegNo},
		{"doctor2Name", p.Doctor2Name},
		{"doctor2RegNo", p.Doctor2RegNo},
		{"patientRepresentative", p.PatientRepresentative},
		{"clinicRepresentative", p.ClinicRepresentative},
		{"phone", p.Phone},
		{"email", p.Email},
		{"website", p.Website},
		{"updatedAt", p.UpdatedAt},
	}
	for _, row := range rows {
		fmt.Printf("%-22s %s\n", row.name, row.value)
	}
}
