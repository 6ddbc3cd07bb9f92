/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"cropadvisor/common/config"
	cropErrors "cropadvisor/common/errors"
	"cropadvisor/common/telemetry"
	"cropadvisor/crop-advisor-service/internal/inference"
	"cropadvisor/crop-advisor-service/internal/router"
	"cropadvisor/crop-advisor-service/internal/view"
	"cropadvisor/crop-advisor-service/pkg/crops"
	"cropadvisor/crop-advisor-service/pkg/dto"
	"cropadvisor/crop-advisor-service/pkg/store"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

var errPredictionFailed = errors.New("prediction failed")

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "crop-advisor",
		Short:         "Recommend the crop best suited to soil and climate measurements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", config.DefaultConfigFile, "path to the configuration file")
	root.AddCommand(newServeCommand(), newPredictCommand(), newConvertCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the model artifacts and serve the web form and REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configPath)
		},
	}
}

// loadService reads the configuration and the artifacts; a failure here
// must keep the service from starting.
func loadService(configPath string, logLevel string) (*config.CropAdvisorConfig, *store.Artifacts, logger.LoggingClient, error) {
	lc := logger.NewClient(router.ServiceName, config.DefaultLogLevel)
	cfg, err := config.LoadConfiguration(configPath)
	if err != nil {
		lc.Errorf("Error reading config: %v", err)
		return nil, nil, nil, cropErrors.NewCommonCropError(cropErrors.ErrorTypeConfig, err.Error())
	}
	if logLevel == "" {
		logLevel = cfg.Writable.LogLevel
	}
	if err := lc.SetLogLevel(logLevel); err != nil {
		lc.Warnf("Ignoring log level %s: %v", logLevel, err)
	}

	artifacts, err := store.Load(cfg.Artifacts, lc)
	if err != nil {
		lc.Errorf("Failed to load model artifacts: %v", err)
		return nil, nil, nil, cropErrors.NewCommonCropError(cropErrors.ErrorTypeArtifactLoad, err.Error())
	}
	return cfg, artifacts, lc, nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, artifacts, lc, err := loadService(configPath, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup

	var tel *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tel, err = telemetry.NewTelemetry(router.ServiceName, gometrics.NewRegistry())
		if err != nil {
			return err
		}
		manager, err := telemetry.NewMetricsManager(lc, tel, telemetry.NewLogReporter(lc, router.ServiceName), cfg.Telemetry.ReportInterval())
		if err != nil {
			lc.Errorf("Telemetry reporting disabled: %v", err)
		} else {
			manager.Run(ctx, &wg)
		}
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	router.NewRouter(e, lc, artifacts, crops.NewLabelTable(), tel).LoadRestRoutes()

	err = router.NewServer(e, cfg, lc).Run(ctx)
	cancel()
	wg.Wait()
	if err != nil {
		lc.Errorf("%s stopped: %v", router.ServiceName, err)
	}
	return err
}

func newPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Recommend a crop for one set of measurements without starting the server",
		Example: "  crop-advisor predict --Nitrogen 90 --Phosporus 42 --Potassium 43 " +
			"--Temperature 20.8 --Humidity 82 --Ph 6.5 --Rainfall 202.9",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			_, artifacts, lc, err := loadService(configPath, logLevel)
			if err != nil {
				return err
			}

			fields := make(map[string]string, dto.FeatureCount)
			for _, name := range dto.FeatureFields() {
				if cmd.Flags().Changed(name) {
					fields[name], _ = cmd.Flags().GetString(name)
				}
			}
			result := inference.NewPredictor(artifacts, crops.NewLabelTable(), lc, nil).Predict(fields)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text())
			if !result.IsSuccess() {
				return errPredictionFailed
			}
			return nil
		},
	}
	for _, name := range dto.FeatureFields() {
		cmd.Flags().String(name, "", fmt.Sprintf("%s measurement", name))
	}
	cmd.Flags().String("log-level", "ERROR", "log level while predicting")
	return cmd
}

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <source> <target>",
		Short: "Validate an artifact and rewrite it in the format of the target extension (.cbor, .json, .yaml)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := store.ReadEnvelope(args[0])
			if err != nil {
				return err
			}
			switch {
			case envelope.IsTransformer():
				_, err = envelope.BuildTransformer()
			case envelope.IsClassifier():
				_, err = envelope.BuildClassifier()
			default:
				err = fmt.Errorf("artifact kind %q is not supported", envelope.Kind)
			}
			if err != nil {
				return errors.Wrapf(err, "refusing to convert %s", args[0])
			}
			if err := store.WriteEnvelope(args[1], envelope); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s artifact to %s\n", envelope.Kind, args[1])
			return nil
		},
	}
}
