/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/virtrtc/virtrtc/tick"
)

func init() {
	RootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show internal state of the virtual RTC",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		p, err := fetchState()
		if err != nil {
			log.Fatal(err)
		}

		armed := color.RedString("no")
		if p.Armed {
			armed = color.GreenString("yes")
		}
		scale := tick.Scale{Width: p.TickWidth, PerTick: time.Duration(p.TickIntervalNs)}
		unfolded := scale.Delta(p.CurrentTick, p.CommittedTick)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"field", "value"})
		table.Append([]string{"committed time", time.Unix(0, p.CommittedUnixNano).UTC().Format(time.RFC3339Nano)})
		table.Append([]string{"committed tick", fmt.Sprintf("%d", p.CommittedTick)})
		table.Append([]string{"current tick", fmt.Sprintf("%d", p.CurrentTick)})
		table.Append([]string{"unfolded ticks", fmt.Sprintf("%d (%v)", unfolded, scale.Duration(unfolded))})
		table.Append([]string{"resync armed", armed})
		table.Append([]string{"counter width", fmt.Sprintf("%d bits", p.TickWidth)})
		table.Append([]string{"tick interval", scale.PerTick.String()})
		table.Append([]string{"wraparound period", scale.WrapPeriod().String()})
		table.Render()
	},
}
