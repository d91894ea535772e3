package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/logger"
	"github.com/hireloop/screener/internal/screening"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	// The demo application the original workflow shipped with; used as the
	// interactive prompt default.
	defaultApplication = "I have 4 years of experience in C++ and STL, worked on embedded systems and performance optimization."
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen a candidate application through the workflow",
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("text", "t", "", "candidate application text")
	screenCmd.Flags().StringP("file", "f", "", "file containing the candidate application text")
}

func screen(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screener", zap.String("version", version))

	classifier, err := newClassifier(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal("building the classifier", zap.Error(err))
	}

	screener := screening.New(classifier, screening.Config{
		Role:         config.Role,
		MaxLogLength: config.Gemini.MaxLogLength,
	}, logger)

	application, err := applicationFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading the application text", zap.Error(err))
	}

	if application != "" {
		runScreening(ctx, screener, logger, application)
		return
	}

	interactiveLoop(ctx, screener, logger)
}

func applicationFromFlags(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); strings.TrimSpace(text) != "" {
		return text, nil
	}

	path, _ := cmd.Flags().GetString("file")
	if strings.TrimSpace(path) == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading application from file %q: %w", path, err)
	}

	return string(data), nil
}

func interactiveLoop(ctx context.Context, screener *screening.Screener, logger *zap.Logger) {
	for {
		prompt := promptui.Prompt{
			Label:   "Candidate application",
			Default: defaultApplication,
		}

		application, err := prompt.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}

		runScreening(ctx, screener, logger, application)

		again := promptui.Select{
			Label: "Screen another candidate?",
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := again.Run()
		if err != nil || action == PromptNo {
			logger.Info("exiting", zap.String("reason", "done screening"))
			return
		}
	}
}

func runScreening(ctx context.Context, screener *screening.Screener, logger *zap.Logger, application string) {
	result, err := screener.Run(ctx, application)
	if err != nil {
		logger.Fatal("running the screening",
			zap.Error(err),
			zap.String("hint", "check the gemini api key and network connectivity"),
		)
	}

	fmt.Printf("Experience Level: %s\n", result.ExperienceLevel)
	fmt.Printf("Skill Match:      %s\n", result.SkillMatch)
	fmt.Printf("Action:           %s\n", result.Response)
}
