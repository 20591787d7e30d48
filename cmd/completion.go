package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/todolist-go/internal/config"
)

var completionCommands = []string{
	"add", "edit", "rm", "toggle", "ls", "tui", "doctor", "config", "tail", "completion", "version", "help",
}

// completionCommand prints a shell completion script.
func completionCommand(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todolist completion <bash|zsh|fish|powershell>")
	}

	switch strings.ToLower(args[0]) {
	case "bash":
		fmt.Print(bashCompletion())
	case "zsh":
		fmt.Print(zshCompletion())
	case "fish":
		fmt.Print(fishCompletion())
	case "powershell", "pwsh":
		fmt.Print(powershellCompletion())
	default:
		return fmt.Errorf("unsupported shell %q (expected bash|zsh|fish|powershell)", args[0])
	}
	return nil
}

func globalFlagNames() []string {
	names := []string{"-help", "-version"}
	for _, f := range config.FlagNames() {
		names = append(names, "-"+f)
	}
	return names
}

func bashCompletion() string {
	return fmt.Sprintf(`# todolist bash completion
_todolist() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"

    case "${words[1]}" in
        ls|list)
            COMPREPLY=($(compgen -W "-format -v" -- "$cur"))
            return ;;
        tail)
            COMPREPLY=($(compgen -W "-f -follow -n -list" -- "$cur"))
            return ;;
        config)
            COMPREPLY=($(compgen -W "-example" -- "$cur"))
            return ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish powershell" -- "$cur"))
            return ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W "$flags" -- "$cur"))
    else
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
    fi
}
complete -F _todolist todolist
`, strings.Join(completionCommands, " "), strings.Join(globalFlagNames(), " "))
}

func zshCompletion() string {
	var b strings.Builder
	b.WriteString("#compdef todolist\n\n")
	b.WriteString("_todolist() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range completionCommands {
		fmt.Fprintf(&b, "        '%s'\n", c)
	}
	b.WriteString("    )\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range globalFlagNames() {
		fmt.Fprintf(&b, "        '%s[]' \\\n", f)
	}
	b.WriteString("        '1:command:compadd -a commands' \\\n")
	b.WriteString("        '*::arg:_default'\n")
	b.WriteString("}\n\n")
	b.WriteString("_todolist \"$@\"\n")
	return b.String()
}

func fishCompletion() string {
	var b strings.Builder
	b.WriteString("# todolist fish completion\n")
	fmt.Fprintf(&b, "complete -c todolist -f -n '__fish_use_subcommand' -a '%s'\n", strings.Join(completionCommands, " "))
	for _, f := range config.FlagNames() {
		fmt.Fprintf(&b, "complete -c todolist -o %s\n", f)
	}
	b.WriteString("complete -c todolist -f -n '__fish_seen_subcommand_from ls' -o format -a 'text json yaml'\n")
	b.WriteString("complete -c todolist -f -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	return b.String()
}

func powershellCompletion() string {
	quoted := make([]string, 0, len(completionCommands))
	for _, c := range completionCommands {
		quoted = append(quoted, "'"+c+"'")
	}
	return fmt.Sprintf(`# todolist PowerShell completion
Register-ArgumentCompleter -Native -CommandName todolist -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $commands = @(%s)
    $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`, strings.Join(quoted, ", "))
}
