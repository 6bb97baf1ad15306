package alert

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// LogChannel writes alerts through a stdlib logger.
type LogChannel struct {
	logger *log.Logger
	name   string
}

func NewLogChannel(name string, output *os.File) *LogChannel {
	if output == nil {
		output = os.Stdout
	}
	return &LogChannel{
		logger: log.New(output, "[ALERT] ", log.LstdFlags),
		name:   name,
	}
}

func (c *LogChannel) Send(a Alert) error {
	msg := fmt.Sprintf("[%s] %s: %s", a.Level, a.Rule, a.Message)
	if len(a.Fields) > 0 {
		keys := make([]string, 0, len(a.Fields))
		for k := range a.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg += " |"
		for _, k := range keys {
			msg += fmt.Sprintf(" %s=%v", k, a.Fields[k])
		}
	}
	c.logger.Println(msg)
	return nil
}

func (c *LogChannel) Name() string { return c.name }

// FuncChannel adapts a function to Channel; used by tests and custom sinks.
type FuncChannel struct {
	ChannelName string
	Fn          func(Alert) error
}

func (c FuncChannel) Send(a Alert) error { return c.Fn(a) }
func (c FuncChannel) Name() string       { return c.ChannelName }
