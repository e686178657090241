package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/mbs/calendar"
	"github.com/meenmo/mbs/internal/logger"
	"github.com/meenmo/mbs/internal/report"
	"github.com/meenmo/mbs/internal/settings"
	"github.com/meenmo/mbs/utils"
)

var errTasksFailed = errors.New("one or more tasks failed")

type app struct {
	configPath string
	envPath    string
	inputPath  string

	settings *settings.Settings
	log      zerolog.Logger
	stdin    io.Reader
	stdout   io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "mbsvalue",
		Short:         "Amortize loans, pool them under prepayment and value the cash flows",
		Long:          "Reads one JSON task (or an array of tasks) from --input or stdin and writes JSON results to stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(a.configPath, a.envPath)
			if err != nil {
				return err
			}
			s.Apply()
			a.settings = s
			a.log = logger.New(logger.Config{Level: s.Log.Level, Pretty: s.Log.Pretty, Out: cmd.ErrOrStderr()})
			a.stdin = cmd.InOrStdin()
			a.stdout = cmd.OutOrStdout()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML settings file (optional)")
	root.PersistentFlags().StringVar(&a.envPath, "env", ".env", "dotenv file with MBS_* overrides (ignored if missing)")
	root.PersistentFlags().StringVarP(&a.inputPath, "input", "i", "", "JSON input path (reads stdin if omitted)")

	root.AddCommand(
		a.newCommand("schedule", "Amortization table for a fixed or adjustable loan", processSchedule),
		a.newCommand("pool", "Pool cash flows under an SMM curve", processPool),
		a.newCommand("sweep", "Market value with and without model prepayment across flat market rates", processSweep),
		a.newCommand("solve", "Flat market rate that reproduces a target price", processSolve),
	)
	return root
}

type processor func(a *app, in taskInput) (any, error)

func (a *app) newCommand(name, short string, process processor) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(name, process)
		},
	}
}

func (a *app) run(name string, process processor) error {
	raw, err := readInput(strings.TrimSpace(a.inputPath), a.stdin)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	a.log.Info().Str("command", name).Int("tasks", len(inputs)).Msg("processing")

	hadError := false
	outputs := make([]report.Envelope, 0, len(inputs))
	for _, in := range inputs {
		res, err := process(a, in)
		env := report.NewEnvelope(name, in.TaskID, res)
		if err != nil {
			hadError = true
			env.Error = err.Error()
			a.log.Warn().Err(err).Str("task_id", in.TaskID).Str("run_id", env.RunID).Msg("task failed")
		}
		outputs = append(outputs, env)
	}

	if isArray {
		err = report.Write(a.stdout, outputs)
	} else {
		err = report.Write(a.stdout, outputs[0])
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if hadError {
		return errTasksFailed
	}
	return nil
}

func (a *app) dating(in taskInput) (report.Dating, error) {
	first, err := utils.ParseDate(in.FirstPaymentDate)
	if err != nil {
		return report.Dating{}, fmt.Errorf("invalid first_payment_date: %w", err)
	}
	cal := calendar.USD
	if a.settings != nil {
		if cal, err = calendar.Parse(a.settings.Calendar); err != nil {
			return report.Dating{}, err
		}
	}
	return report.Dating{FirstPayment: first, Calendar: cal}, nil
}
