// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/netrace/netrace/pkg/aggregate"
	"github.com/netrace/netrace/pkg/filter"
	"github.com/netrace/netrace/pkg/unique"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Network names are the prefix of "network:id" strings.
	_ = validate.RegisterValidation("netname", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), ": \t\n")
	})
}

// Validator returns the shared validator, with the custom netrace tags registered.
func Validator() *validator.Validate { return validate }

// Validate checks field constraints and the cross references between networks and connections.
// All problems found are returned together.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return FormatValidationError(err)
	}
	var errs unique.Errors
	names := unique.Set[string]{}
	for _, n := range c.Networks {
		if !names.AddNew(n.Name) {
			errs.Add(fmt.Errorf("network %q: duplicate name", n.Name))
		}
		for _, a := range n.EdgeFeature.Aggregates {
			if _, err := aggregate.MethodByName(a.Method); err != nil {
				errs.Add(fmt.Errorf("network %q: aggregate %q: %w", n.Name, a.Target, err))
			}
		}
		if len(n.VertexFeature.Aggregates) > 0 {
			errs.Add(fmt.Errorf("network %q: vertex aggregates are not supported", n.Name))
		}
		for _, f := range []string{n.NodeFilter, n.EdgeFilter} {
			if _, err := filter.Compile(f); err != nil {
				errs.Add(fmt.Errorf("network %q: %w", n.Name, err))
			}
		}
	}
	for _, conn := range c.Connections {
		for _, name := range []string{conn.SourceNetwork, conn.TargetNetwork} {
			if !names.Has(name) {
				errs.Add(fmt.Errorf("connection %v->%v: unknown network %q", conn.SourceNetwork, conn.TargetNetwork, name))
			}
		}
	}
	return errs.Err()
}

// Network returns the named network or nil.
func (c *Config) Network(name string) *Network {
	for i := range c.Networks {
		if c.Networks[i].Name == name {
			return &c.Networks[i]
		}
	}
	return nil
}

// DefaultReload is used for fields not set in Config.Reload.
var DefaultReload = Reload{
	Retry:      Duration{time.Second},
	RetryMax:   Duration{5 * time.Minute},
	Multiplier: 2,
}

// ReloadPolicy returns Reload with defaults filled in.
func (c *Config) ReloadPolicy() Reload {
	r := DefaultReload
	if c.Reload != nil {
		if c.Reload.Retry.Duration > 0 {
			r.Retry = c.Reload.Retry
		}
		if c.Reload.RetryMax.Duration > 0 {
			r.RetryMax = c.Reload.RetryMax
		}
		if c.Reload.Multiplier >= 1 {
			r.Multiplier = c.Reload.Multiplier
		}
	}
	return r
}

// FormatValidationError turns validator errors into short field messages.
func FormatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest // Drop the top level type name.
		}
		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "netname":
			errs = append(errs, fmt.Errorf("%s: invalid network name %q", field, e.Value()))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s]", field, e.Param()))
		case "gt", "gte":
			errs = append(errs, fmt.Errorf("%s: must be %s %s", field, map[string]string{"gt": ">", "gte": ">="}[e.Tag()], e.Param()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}
