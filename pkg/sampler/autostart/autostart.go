// Package autostart starts the metrics sampler when imported, if
// METRICS_SAMPLER_ENABLED is "1" or "true":
//
//	import _ "github.com/ja7ad/cgsampler/pkg/sampler/autostart"
package autostart

import "github.com/ja7ad/cgsampler/pkg/sampler"

func init() {
	if sampler.FromEnv().Enabled {
		sampler.Start(nil)
	}
}
