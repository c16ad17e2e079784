package sh

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// describe is the one-line form of a discovered controller.
func describe(info l1.ControllerInfo) string {
	if info.Meta.Description == "" {
		return info.Ref.Name()
	}
	return info.Ref.Name() + ": " + info.Meta.Description
}

// byType accepts controllers of type args[0], or all without args.
func byType(args []string) func(l1.ControllerInfo) bool {
	if len(args) == 0 {
		return nil
	}
	return func(info l1.ControllerInfo) bool {
		return info.Ref.Type == args[0]
	}
}

func filterInfos(infos []l1.ControllerInfo, accept func(l1.ControllerInfo) bool) []l1.ControllerInfo {
	if accept == nil {
		return infos
	}
	var accepted []l1.ControllerInfo
	for _, info := range infos {
		if accept(info) {
			accepted = append(accepted, info)
		}
	}
	return accepted
}

func formatInfos(infos []l1.ControllerInfo, asJSON bool) (string, error) {
	if asJSON {
		if infos == nil {
			infos = []l1.ControllerInfo{}
		}
		out, err := json.Marshal(infos)
		return string(out), err
	}
	if len(infos) == 0 {
		return "No controllers found", nil
	}
	lines := make([]string, len(infos))
	for n, info := range infos {
		lines[n] = describe(info)
	}
	return strings.Join(lines, "\n"), nil
}

// formatReply prints OK for CommandOK, otherwise the message type and
// its fields.
func formatReply(reply fx.Message, asJSON bool) (string, error) {
	m, ok := reply.(msgs.SerializableMessage)
	if !ok {
		return "", fmt.Errorf("unexpected reply %T", reply)
	}
	if asJSON {
		out, err := json.Marshal(m.Serializable())
		return string(out), err
	}
	if _, ok := reply.(*msgs.CommandOK); ok {
		return "OK", nil
	}
	name := reflect.Indirect(reflect.ValueOf(reply)).Type().Name()
	return name + " " + m.Serializable().String(), nil
}
