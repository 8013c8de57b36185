package ui

import (
	"fmt"
	"strings"

	"github.com/nvpkp/lexi/config"
	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/history"
	"github.com/nvpkp/lexi/internal/provider"
	"github.com/nvpkp/lexi/internal/utils"
)

// RenderProfiles lists every profile with its provider and model
func RenderProfiles(profiles []config.Profile) string {
	var b strings.Builder
	b.WriteString("👥 Available Profiles:\n")
	for _, p := range profiles {
		marker := ""
		if p.Active {
			marker = ActiveStyle.Render(" (active)")
		}
		fmt.Fprintf(&b, "   • %s%s - %s (%s)\n", p.Name, marker, p.Config.Provider, p.Config.Model)
	}
	return b.String()
}

// RenderConfig shows one profile's settings with the API key masked
func RenderConfig(profile string, cfg models.Configuration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔧 Lexi Configuration (Profile: %s):\n", profile)
	fmt.Fprintf(&b, "   provider: %s\n", cfg.Provider)
	fmt.Fprintf(&b, "   model: %s\n", cfg.Model)
	fmt.Fprintf(&b, "   api_key: %s\n", utils.MaskAPIKey(cfg.APIKey))
	fmt.Fprintf(&b, "   base_url: %s\n", utils.OrNotSet(cfg.BaseURL))
	fmt.Fprintf(&b, "   temperature: %g\n", cfg.Temperature)
	fmt.Fprintf(&b, "   max_tokens: %d\n", cfg.MaxTokens)
	return b.String()
}

// RenderHistory lists compile history entries, newest first
func RenderHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return DimStyle.Render("No compiles recorded yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString("🕘 Recent compiles:\n")
	for _, e := range entries {
		status := SuccessStyle.Render("✅")
		detail := e.Output
		if e.Status != history.StatusOK {
			status = ErrorStyle.Render("❌")
			detail = e.Error
		}
		fmt.Fprintf(&b, "   %s %s  %s → %s  %s\n",
			status,
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Input,
			e.Target,
			DimStyle.Render(detail))
		if e.Provider != "" {
			fmt.Fprintf(&b, "      %s\n", DimStyle.Render(e.Provider+" / "+e.Model))
		}
	}
	return b.String()
}

// RenderProviders lists the supported providers and their defaults
func RenderProviders() string {
	var b strings.Builder
	b.WriteString("🔌 Supported providers:\n")
	for _, k := range provider.Kinds {
		info := provider.Describe(k)

		var needs []string
		if info.RequiresKey {
			needs = append(needs, "api_key")
		}
		if info.RequiresBaseURL {
			needs = append(needs, "base_url")
		}
		requirement := "no credentials"
		if len(needs) > 0 {
			requirement = "needs " + strings.Join(needs, ", ")
		}

		fmt.Fprintf(&b, "   • %-10s %-10s model: %-26s base_url: %s  %s\n",
			k.String(),
			"("+k.Label()+")",
			info.DefaultModel,
			utils.OrNotSet(info.DefaultBaseURL),
			DimStyle.Render(requirement))
	}
	return b.String()
}

// ConfigGuide is printed by lexi config init
const ConfigGuide = `🚀 Setting up Lexi configuration...

Available providers:
  • openai (GPT-4, GPT-3.5)
  • anthropic (Claude)
  • local (Ollama)
  • azure (Azure OpenAI)

Example setup:
  lexi config set provider openai
  lexi config set model gpt-4
  lexi config set api_key sk-...

For local Ollama:
  lexi config set provider local
  lexi config set model codellama
  lexi config set base_url http://localhost:11434
`
