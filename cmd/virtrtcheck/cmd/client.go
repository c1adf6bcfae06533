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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/virtrtc/virtrtc/daemon"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

func serverURL(path string) string {
	host := server
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host + path
}

func getJSON(path string, out any) error {
	resp, err := httpClient.Get(serverURL(path))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func fetchTime() (*daemon.TimePayload, error) {
	p := &daemon.TimePayload{}
	if err := getJSON("/time", p); err != nil {
		return nil, err
	}
	return p, nil
}

func fetchState() (*daemon.StatePayload, error) {
	p := &daemon.StatePayload{}
	if err := getJSON("/state", p); err != nil {
		return nil, err
	}
	return p, nil
}

func postTime(p *daemon.TimePayload) error {
	js, err := json.Marshal(p)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(serverURL("/time"), "application/json", bytes.NewReader(js))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
