//
// Copyright 2024 The Data Anonymizer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package anonymizer

import (
	"testing"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

func TestMissingSaltRejected(t *testing.T) {
	_, err := New(Config{"Name": {Method: "hash"}}, Options{})
	if kind, ok := KindOf(err); !ok || kind != ConfigurationError {
		t.Fatalf("missing salt: got %v, want ConfigurationError", err)
	}
}

func TestGeneratedSaltAccepted(t *testing.T) {
	e, err := New(Config{"Name": {Method: "hash"}}, Options{GenerateSalt: true})
	if err != nil {
		t.Fatalf("New with GenerateSalt: %v", err)
	}
	if e.rc.Salt == "" {
		t.Error("generated salt is empty")
	}
}

func TestConfigCompileErrors(t *testing.T) {
	for _, tc := range []struct {
		desc string
		cfg  Config
	}{
		{"unknown method", Config{"Name": {Method: "rot13"}}},
		{"unknown option", Config{"Name": {Method: "hash", Options: map[string]any{"algo": "sha256"}}}},
		{"bad hash algorithm", Config{"Name": {Method: "hash", Options: map[string]any{"algorithm": "md5"}}}},
		{"multi-rune mask char", Config{"Name": {Method: "mask", Options: map[string]any{"mask_char": "**"}}}},
		{"negative keep window", Config{"Name": {Method: "mask", Options: map[string]any{"keep_prefix": -1}}}},
		{"substitute without pool", Config{"Name": {Method: "substitute"}}},
		{"unknown pool category", Config{"Name": {Method: "substitute", Options: map[string]any{"category": "animals"}}}},
		{"non-deterministic pseudonymize", Config{"Name": {Method: "pseudonymize", Options: map[string]any{"deterministic": false}}}},
		{"zero bin size", Config{"Age": {Method: "generalize_numeric", Options: map[string]any{"bin_size": 0}}}},
		{"unknown granularity", Config{"HireDate": {Method: "generalize_date", Options: map[string]any{"granularity": "week"}}}},
		{"empty taxonomy", Config{"Dept": {Method: "generalize_categorical"}}},
		{"dp missing epsilon", Config{"Salary": {Method: "differential_privacy", Options: map[string]any{"sensitivity": 1.0}}}},
		{"dp missing sensitivity", Config{"Salary": {Method: "differential_privacy", Options: map[string]any{"epsilon": 1.0}}}},
		{"dp non-positive epsilon", Config{"Salary": {Method: "differential_privacy", Options: map[string]any{"epsilon": 0.0, "sensitivity": 1.0}}}},
		{"dp unknown mode", Config{"Salary": {Method: "differential_privacy", Options: map[string]any{"epsilon": 1.0, "sensitivity": 1.0, "mode": "batch"}}}},
		{"k below 2", Config{"Age": {Method: "k_anonymity", Options: map[string]any{"quasi_identifiers": []any{"Age"}, "k": 1}}}},
		{"k-anonymity without quasi-identifiers", Config{"Age": {Method: "k_anonymity"}}},
		{"duplicate quasi-identifiers", Config{"Age": {Method: "k_anonymity", Options: map[string]any{"quasi_identifiers": []any{"Age", "Age"}}}}},
		{"noise scale below zero", Config{"Salary": {Method: "perturb", Options: map[string]any{"noise_scale": -1}}}},
	} {
		_, err := New(tc.cfg, Options{Salt: testSalt})
		if kind, ok := KindOf(err); !ok || kind != ConfigurationError {
			t.Errorf("%s: got %v, want ConfigurationError", tc.desc, err)
		}
	}
}

func TestNonDeterministicQuasiIdentifierRejected(t *testing.T) {
	cfg := Config{
		"Salary": {Method: "perturb"},
		"Age": {Method: "k_anonymity", Options: map[string]any{
			"quasi_identifiers": []any{"Salary"}, "k": 2,
		}},
	}
	_, err := New(cfg, Options{Salt: testSalt})
	if kind, ok := KindOf(err); !ok || kind != ConfigurationError {
		t.Fatalf("perturbed quasi-identifier: got %v, want ConfigurationError", err)
	}
}

func TestTypeMismatchAtRun(t *testing.T) {
	d, _ := dataset.New(stringColumn("Age", "twenty"))
	_, _, err := mustEngine(t, Config{"Age": {Method: "generalize_numeric"}}).Run(d)
	if kind, ok := KindOf(err); !ok || kind != TypeMismatchError {
		t.Fatalf("numeric method on string column: got %v, want TypeMismatchError", err)
	}
}

func TestMissingColumnAtRun(t *testing.T) {
	d, _ := dataset.New(stringColumn("Name", "Alice"))
	_, _, err := mustEngine(t, Config{"Nickname": {Method: "hash"}}).Run(d)
	if kind, ok := KindOf(err); !ok || kind != ConfigurationError {
		t.Fatalf("missing column: got %v, want ConfigurationError", err)
	}
}
