// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of time and memory allocation at a given point
// in time.  This is used to report how long the various phases of a synthesis
// run (formula construction, solving) take.
type PerfStats struct {
	// Starting time
	start time.Time
	// Total memory allocated at start
	alloc uint64
	// Number of gc events at start
	gcs uint32
}

// NewPerfStats takes a snapshot of the current time and memory allocation.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Elapsed returns the time passed since this snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.start)
}

// Fields returns the resources used since this snapshot was taken, in a form
// suitable for structured logging.  Memory is reported in Mb.
func (p *PerfStats) Fields() log.Fields {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return log.Fields{
		"elapsed": p.Elapsed().Round(time.Microsecond),
		"alloc":   (m.TotalAlloc - p.alloc) / 1024 / 1024,
		"gcs":     m.NumGC - p.gcs,
	}
}

// Log reports the resources used since this snapshot was taken, at debug level.
func (p *PerfStats) Log(phase string) {
	log.WithFields(p.Fields()).Debugf("%s finished", phase)
}
