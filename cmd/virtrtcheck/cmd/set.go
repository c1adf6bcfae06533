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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/virtrtc/virtrtc/daemon"
)

var setTimeFlag string
var setNowFlag bool

func init() {
	RootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVarP(&setTimeFlag, "time", "t", "", "instant to set, RFC3339")
	setCmd.Flags().BoolVarP(&setNowFlag, "now", "n", false, "set to the local host's current time")
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Overwrite the virtual RTC time",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		var target time.Time
		switch {
		case setNowFlag:
			target = time.Now()
		case setTimeFlag != "":
			var err error
			target, err = time.Parse(time.RFC3339, setTimeFlag)
			if err != nil {
				log.Fatalf("Failed to parse --time: %v", err)
			}
		default:
			log.Fatal("Either --time or --now is required")
		}

		if err := postTime(&daemon.TimePayload{UnixNano: target.UnixNano()}); err != nil {
			log.Fatal(err)
		}
		log.Infof("Clock set to %v", target.UTC().Format(time.RFC3339Nano))
	},
}
