package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/persona"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

var (
	stylePartner = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleRepair  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func newChatCommand(flags *rootFlags) *cobra.Command {
	var showTrace bool
	var pickPersona bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive practice session",
		Long: `Start a practice conversation. Type a message as if you were chatting on
the app; safe messages get a simulated partner reply, gated messages get a
boundary-safe redirect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY() {
				return fmt.Errorf("chat needs an interactive terminal; use 'batch' for scripted runs")
			}
			a, err := buildApp(flags)
			if err != nil {
				return err
			}

			personaName := a.cfg.Persona
			if pickPersona {
				personaName, err = selectPersona()
				if err != nil {
					return err
				}
			}
			p, err := persona.Get(personaName)
			if err != nil {
				return err
			}

			client, err := a.newLLMClient()
			if err != nil {
				return err
			}

			return runChat(a, p, client, showTrace)
		},
	}

	cmd.Flags().BoolVar(&showTrace, "trace", true, "Show the gate verdict after each message")
	cmd.Flags().BoolVar(&pickPersona, "pick-persona", false, "Choose the persona interactively")
	return cmd
}

// selectPersona shows an arrow-key persona picker.
func selectPersona() (string, error) {
	personas := persona.All()
	items := make([]string, len(personas))
	for i, p := range personas {
		items[i] = fmt.Sprintf("%s — %s", p.Name, p.Description)
	}

	prompt := promptui.Select{
		Label: "Practice persona",
		Items: items,
		Size:  len(items),
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("persona selection: %w", err)
	}
	return personas[idx].Name, nil
}

func runChat(a *app, p persona.Persona, client llm.Client, showTrace bool) error {
	fmt.Println(styleHeader.Render("practicebot — " + p.Name))
	fmt.Println(gray(p.Description))
	fmt.Println(gray("Type a message and press Enter. 'exit' or Ctrl+D to quit."))
	fmt.Println()

	homeDir, _ := os.UserHomeDir()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            bold("you> "),
		HistoryFile:       filepath.Join(homeDir, ".practicebot-history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             readline.NewCancelableStdin(os.Stdin),
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	ctx := context.Background()
	var history []features.Turn
	llmHistory := []llm.Message{{Role: "system", Content: p.SystemPrompt}}
	turn := 0

	for {
		input, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(input) == 0 {
				break
			}
			continue
		}
		if err == io.EOF {
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" || input == "q" {
			break
		}
		turn++

		msg := gate.Message{
			SampleID: fmt.Sprintf("chat_%d", turn),
			Text:     input,
			History:  history,
		}
		decision, err := a.gate.Decide(ctx, msg)
		if err != nil {
			fmt.Println(errorText(err.Error()))
			continue
		}
		if showTrace {
			fmt.Println(traceLine(gate.BuildRecord(msg, decision)))
		}

		var reply string
		if decision.Action == gate.ActionSafeRepair {
			reply = templates.Render(decision.TemplateID, a.rng)
			fmt.Println(styleRepair.Render(p.Name+"> ") + reply)
		} else {
			llmHistory = append(llmHistory, llm.Message{Role: "user", Content: input})
			resp, err := client.Chat(ctx, llm.ChatRequest{
				Messages:    llmHistory,
				Temperature: a.cfg.LLM.Temperature,
				TopP:        a.cfg.LLM.TopP,
				MaxTokens:   a.cfg.LLM.MaxTokens,
			})
			if err != nil {
				fmt.Println(errorText(err.Error()))
				continue
			}
			reply = resp.Content
			llmHistory = append(llmHistory, llm.Message{Role: "assistant", Content: reply})
			fmt.Println(stylePartner.Render(p.Name+"> ") + reply)
		}
		fmt.Println()

		history = append(history,
			features.Turn{Speaker: "user", Text: input},
			features.Turn{Speaker: "bot", Text: reply},
		)
	}

	fmt.Println(gray("Session over. Good practice."))
	return nil
}
