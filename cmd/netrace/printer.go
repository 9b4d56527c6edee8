// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/netrace/netrace/internal/pkg/must"
	"github.com/netrace/netrace/internal/pkg/text"
	"github.com/netrace/netrace/pkg/service"
	"sigs.k8s.io/yaml"
)

type printer interface {
	Print(any) // Print a single value.
}

type jsonPrinter struct{ *json.Encoder }

func (p jsonPrinter) Print(v any) { must.Must(p.Encode(v)) }

type yamlPrinter struct{ io.Writer }

func (p yamlPrinter) Print(v any) {
	b := must.Must1(yaml.Marshal(v))
	must.Must1(p.Write(b))
}

// textPrinter prints tables for networks and traces, YAML for anything else.
type textPrinter struct{ io.Writer }

func (p textPrinter) Print(v any) {
	switch v := v.(type) {
	case []service.NetworkInfo:
		text.Networks(p, v)
	case *service.TraceResponse:
		text.Trace(p, v)
	default:
		yamlPrinter(p).Print(v)
	}
}

func newPrinter(w io.Writer) printer {
	switch outputFlag.String() {
	case "json":
		return jsonPrinter{Encoder: json.NewEncoder(w)}

	case "json-pretty":
		p := jsonPrinter{Encoder: json.NewEncoder(w)}
		p.SetIndent("", "  ")
		return p

	case "yaml", "":
		return yamlPrinter{Writer: w}

	case "text":
		return textPrinter{Writer: w}

	default:
		must.Must(fmt.Errorf("invalid output type: %v", outputFlag))
		return nil
	}
}
