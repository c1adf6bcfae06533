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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current virtual RTC time",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		p, err := fetchTime()
		if err != nil {
			log.Fatal(err)
		}
		log.Debugf("raw reading: %+v", p)
		fmt.Println(time.Unix(0, p.UnixNano).UTC().Format(time.RFC3339Nano))
	},
}
