package libretro

import (
	"strings"

	"github.com/rs/zerolog"

	emucore "github.com/user-none/v32retro/api"
)

// configSync reads core options from the host and applies them to the
// scheduler. Frameskip is the only option; enabling it subscribes to the
// host's audio buffer telemetry and disabling it unsubscribes.
type configSync struct {
	env   Environment
	info  emucore.SystemInfo
	sched *scheduler
	log   zerolog.Logger

	applied           bool // a host value has been applied at least once
	requested         bool // last frameskip value read from the host
	unsupportedLogged bool
}

// variables renders the declared options for SetVariables.
func (c *configSync) variables() []Variable {
	vars := make([]Variable, 0, len(c.info.CoreOptions))
	for _, opt := range c.info.CoreOptions {
		vars = append(vars, Variable{Key: opt.Key, Value: optionDefinition(opt)})
	}
	return vars
}

// sync reads every option and applies values that changed.
func (c *configSync) sync() {
	if c.env == nil {
		return
	}
	value, ok := c.env.GetVariable(emucore.FrameskipOptionKey)
	if !ok || value == "" {
		return
	}

	enable := value == emucore.FrameskipEnabled
	if c.applied && enable == c.requested {
		return
	}
	c.applied = true
	c.requested = enable

	if enable {
		c.log.Info().Msg("Automatic frame skip enabled")
	} else {
		c.log.Info().Msg("Automatic frame skip disabled")
	}
	c.configureFrameskip(enable)
}

// configureFrameskip matches the telemetry subscription to the policy.
func (c *configSync) configureFrameskip(enable bool) {
	if !enable {
		c.env.SetAudioBufferStatusCallback(nil)
		c.sched.setFrameskip(false)
		return
	}

	// some hosts cannot report audio buffer status
	if !c.env.SetAudioBufferStatusCallback(c.sched.audioStatus) {
		if !c.unsupportedLogged {
			c.log.Warn().Msg("Automatic frame skip has been disabled because frontend does not support audio buffer status monitoring")
			c.unsupportedLogged = true
		}
		c.sched.setFrameskip(false)
		return
	}
	c.sched.setFrameskip(true)
}

// optionDefinition formats an option as "Label; default|other|...".
func optionDefinition(opt emucore.CoreOption) string {
	switch opt.Type {
	case emucore.CoreOptionBool:
		if opt.Default == "true" {
			return opt.Label + "; true|false"
		}
		return opt.Label + "; false|true"
	default:
		return opt.Label + "; " + strings.Join(reorderDefault(opt.Values, opt.Default), "|")
	}
}

// reorderDefault moves the default value to the front of a values slice.
func reorderDefault(values []string, def string) []string {
	result := make([]string, 0, len(values))
	result = append(result, def)
	for _, v := range values {
		if v != def {
			result = append(result, v)
		}
	}
	return result
}
