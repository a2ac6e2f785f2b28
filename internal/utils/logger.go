package utils

import (
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Print 全局 logger，Init 之后同时是 log 包的默认 logger
var Print *log.Logger

func levelStyle(label, bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).Bold(true)
}

// Init level 取 debug / info / warn / error，解析失败按 info
func Init(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	Print = log.NewWithOptions(os.Stderr, log.Options{
		//ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
		Prefix:          "🃏",
	})
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBUG🔍", "#44444480", "#DDDDDDFF")
	styles.Levels[log.InfoLevel] = levelStyle("INFO🌟", "#90EE9080", "#006400FF")
	styles.Levels[log.WarnLevel] = levelStyle("WARN🍪", "#FFA500FF", "#000000FF")
	styles.Levels[log.ErrorLevel] = levelStyle("ERROR🔥", "#FF0000FF", "#00FFFF00")
	styles.Levels[log.FatalLevel] = levelStyle("FATAL⚡️", "#000000FF", "#00FFFF00")
	Print.SetStyles(styles)

	log.SetDefault(Print)
	if err != nil {
		Print.Warn("unknown log level, using info", "level", level)
	}
	return Print
}
