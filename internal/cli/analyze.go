package cli

import (
	"fmt"
	"os"

	"resumerank/internal/ai"
	"resumerank/internal/common"
	"resumerank/internal/extract"
	"resumerank/internal/types"
	"resumerank/internal/utils"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Analyze a resume against a job description",
	Long: `Analyze a resume against a job description and report a match score,
an explanation, and the skills present and missing.

The resume file may be PDF, DOCX, or plain text. The job description file
must be plain text. Pass the job description inline with --jd instead of a
file when convenient.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzeJDText string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd", "", "Job description text (instead of a file argument)")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	resumeFile := args[0]
	fileProcessor := common.NewFileProcessor(logger)

	jobDescription := analyzeJDText
	if jobDescription == "" {
		if len(args) < 2 {
			return fmt.Errorf("a job description file argument or --jd flag is required")
		}
		content, err := fileProcessor.ReadFile(args[1])
		if err != nil {
			return err
		}
		jobDescription = content
	}

	if !utils.IsResumeFile(resumeFile) {
		fmt.Fprintf(os.Stderr, "Warning: %s may not be a supported resume format\n", resumeFile)
	}

	resumeData, err := fileProcessor.ReadBinaryFile(resumeFile)
	if err != nil {
		return err
	}

	format, err := extract.DetectFormat(resumeFile, "")
	if err != nil {
		return err
	}

	resumeText, err := extract.NewExtractor(logger).Text(resumeData, format)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	logger.Info("Starting resume analysis",
		"resume_file", resumeFile,
		"resume_size", utils.FormatFileSize(int64(len(resumeData))),
		"resume_chars", len(resumeText),
		"job_chars", len(jobDescription),
		"output_format", analyzeConfig.OutputFormat)

	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err.Error())
		}
	}()

	result, tokenUsage, err := aiService.AnalyzeResume(cmd.Context(), types.AnalyzeResumeInput{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	// Report token usage
	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(result, analyzeConfig); err != nil {
		return err
	}

	logger.Info("Resume analysis completed successfully", "score", result.Score)
	return nil
}
