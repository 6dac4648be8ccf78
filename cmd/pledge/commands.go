package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pledge"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a draft and print its errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadDraft(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		if err := writeReport(cmd.OutOrStdout(), store); err != nil {
			return err
		}
		if !store.IsValid() {
			return pledge.ErrInvalid
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Revalidate a draft every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := pledge.New(nil).Delay(delay)
		out := cmd.OutOrStdout()
		capitan.Hook(pledge.FormLoaded, func(context.Context, *capitan.Event) {
			if err := writeReport(out, store); err != nil {
				logger.Error("report failed", zap.Error(err))
			}
		})

		logger.Info("watching draft", zap.String("path", args[0]))
		err := store.Follow(ctx, pledge.NewFileWatcher(args[0]), pledge.CodecFor(args[0]))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

var (
	retries int
	timeout time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit FILE",
	Short: "Validate a draft and submit it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []pledge.Option
		if retries > 1 {
			opts = append(opts, pledge.WithRetry(retries))
		}
		if timeout > 0 {
			opts = append(opts, pledge.WithTimeout(timeout))
		}

		store, err := loadDraft(ctx, args[0], func(_ context.Context, v pledge.Values) error {
			logger.Info("submitting",
				zap.String("firstName", v.FirstName),
				zap.String("secondName", v.SecondName),
				zap.Stringer("donationsAmount", v.DonationsAmount),
				zap.Int("donations", len(v.Donations)),
			)
			return nil
		}, opts...)
		if err != nil {
			return err
		}

		if err := store.Submit(ctx); err != nil {
			if errors.Is(err, pledge.ErrInvalid) {
				_ = writeReport(cmd.OutOrStdout(), store)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "submitted")
		return nil
	},
}

func init() {
	submitCmd.Flags().IntVar(&retries, "retries", 1, "Attempts before a submission fails")
	submitCmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound on each submission, 0 for none")
}
