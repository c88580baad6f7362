package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jtarasov/rolefit/internal/logger"
	"github.com/jtarasov/rolefit/internal/recommend"
)

const (
	PromptAllIndustries = "All industries"
	PromptShowReport    = "Show report by industry"
	PromptDumpToFile    = "Dump result to file"
	PromptExit          = "Exit"
)

var errExit = errors.New("exit requested")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a recommendation over a signals document",
	Run: func(cmd *cobra.Command, _ []string) {
		runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("input", "i", "", "signals document (JSON) with resume and profile signals")
	recommendCmd.Flags().StringP("output", "o", "", "write the full result to this file instead of stdout")
	recommendCmd.Flags().StringSlice("industries", nil, "industries to recommend for (overrides config)")
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "print the result and exit without the interactive menu")

	viper.BindPFlag("input", recommendCmd.Flags().Lookup("input"))
}

// runRecommend is the main command for the cli.
func runRecommend(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting rolefit", zap.String("version", version))

	service, err := buildService(ctx, config, logger)
	if err != nil {
		logger.Fatal("building recommendation service", zap.Error(err))
	}

	request, err := loadRequest(viper.GetString("input"))
	if err != nil {
		logger.Fatal("loading signals document", zap.Error(err))
	}

	industries, err := resolveIndustries(cmd, config, request, service)
	if err != nil {
		logger.Fatal("resolving industries", zap.Error(err))
	}
	request.Industries = industries
	if len(request.Specializations) == 0 {
		request.Specializations = config.Specializations
	}

	response, err := service.Recommend(ctx, request)
	if err != nil {
		logger.Fatal("recommendation failed", zap.Error(err))
	}

	for _, warning := range response.Warnings {
		logger.Warn(warning)
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := dumpResponse(response, output); err != nil {
			logger.Fatal("writing result", zap.Error(err))
		}
		logger.Info("result written", zap.String("file", output))
	} else {
		pretty, _ := json.MarshalIndent(response, "", "  ")
		fmt.Println(string(pretty))
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return
	}

	actionPrompt := promptui.Select{
		Label: "What next?",
		Items: []string{PromptShowReport, PromptDumpToFile, PromptExit},
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, response, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, response *recommend.Response, logger *zap.Logger) error {
	switch action {
	case PromptShowReport:
		pretty, _ := json.MarshalIndent(reportByIndustry(response), "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptDumpToFile:
		file, err := os.CreateTemp("", app+"-result-*.json")
		if err != nil {
			return fmt.Errorf("create result file: %w", err)
		}
		defer file.Close()

		if err := json.NewEncoder(file).Encode(response); err != nil {
			return fmt.Errorf("dump result to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", file.Name()))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// reportByIndustry flattens the response into a compact per-industry view.
func reportByIndustry(response *recommend.Response) map[string][]string {
	report := make(map[string][]string)
	for _, result := range response.Results {
		key := fmt.Sprintf("%s (%s confidence)", result.Industry, result.OverallConfidence)
		for _, role := range result.Roles {
			line := fmt.Sprintf("%s / fit %d / %s", role.Title, role.FitScore, role.Seniority)
			if role.ConflictGroupID != "" {
				line += " / parallel path"
			}
			report[key] = append(report[key], line)
		}
	}
	return report
}

// loadRequest reads the signals document. The document may carry its own
// industry selection; flags and config override it.
func loadRequest(path string) (*recommend.Request, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("signals document is required (use --input)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var request recommend.Request
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("parse signals document: %w", err)
	}

	return &request, nil
}

// resolveIndustries picks the industry selection from, in order: the
// --industries flag, the config file, the signals document, and finally an
// interactive prompt over the catalog's industries.
func resolveIndustries(cmd *cobra.Command, config *Config, request *recommend.Request, service *recommend.Service) ([]string, error) {
	if flagged, _ := cmd.Flags().GetStringSlice("industries"); len(flagged) > 0 {
		return flagged, nil
	}
	if len(config.Industries) > 0 {
		return config.Industries, nil
	}
	if len(request.Industries) > 0 {
		return request.Industries, nil
	}

	available := service.Industries()
	if len(available) == 0 {
		return nil, errors.New("catalog has no industries")
	}

	prompt := promptui.Select{
		Label: "Choose an industry",
		Items: append([]string{PromptAllIndustries}, available...),
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	if selected == PromptAllIndustries {
		return available, nil
	}

	return []string{selected}, nil
}

func dumpResponse(response *recommend.Response, path string) error {
	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, pretty, 0o644)
}
