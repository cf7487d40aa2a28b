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

import "fmt"

// Built-in substitution pools, selectable by category name in substitute and
// pseudonymize configurations. Callers can supply inline pools instead.
var builtinPools = map[string][]string{
	"names": {
		"John Doe", "Jane Smith", "Robert Johnson", "Emily Davis",
		"Michael Brown", "Sarah Wilson", "David Miller", "Lisa Garcia",
		"Chris Martinez", "Anna Taylor",
	},
	"companies": {
		"Acme Corp", "Beta Inc", "Gamma LLC", "Delta Ltd",
		"Alpha Systems", "Omega Solutions", "Phoenix Group",
		"Titan Industries", "Nova Corp", "Prime Tech",
	},
	"cities": {
		"Springfield", "Franklin", "Georgetown", "Madison",
		"Riverside", "Arlington", "Fairview", "Greenville",
		"Oakland", "Clayton",
	},
	"domains": {
		"example.com", "testdomain.org", "sample.net", "placeholder.co",
		"anonymous.info", "generic.com", "standard.org", "default.net",
	},
	"countries": {
		"Country A", "Country B", "Country C", "Country D", "Country E",
	},
}

// poolByName resolves a category name into a built-in pool.
func poolByName(category string) ([]string, error) {
	pool, ok := builtinPools[category]
	if !ok {
		return nil, fmt.Errorf("unknown substitution category %q", category)
	}
	return pool, nil
}
