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

package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/hanialnaber/data-anonymizer/rand"
)

var (
	sampleNames = []string{
		"Alice Johnson", "Bob Smith", "Charlie Brown", "Diana Prince",
		"Eve Davis", "Frank Miller", "Grace Wilson", "Henry Garcia",
		"Ivy Martinez", "Jack Taylor", "Karen Anderson", "Leo Thompson",
		"Mia Rodriguez", "Noah Lewis", "Olivia Clark",
	}
	sampleCompanies = []string{
		"Acme Corp", "Beta Industries", "Gamma Solutions", "Delta Systems",
		"Epsilon Technologies", "Zeta Enterprises", "Eta Innovations", "Theta Labs",
	}
	sampleDepartments = []string{
		"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations",
	}
)

// Sample generates a dataset of n rows covering every column type the engine
// handles: identifiers, names, emails, phone numbers, SSNs, numeric and date
// columns. Useful for demos and tests.
func Sample(n int) *Dataset {
	src := rand.Default()
	pick := func(list []string) string {
		return list[src.I63n(int64(len(list)))]
	}

	ids := make([]Value, n)
	names := make([]Value, n)
	ages := make([]Value, n)
	emails := make([]Value, n)
	phones := make([]Value, n)
	ssns := make([]Value, n)
	companies := make([]Value, n)
	departments := make([]Value, n)
	salaries := make([]Value, n)
	hireDates := make([]Value, n)

	epoch := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		name := pick(sampleNames)
		company := pick(sampleCompanies)

		ids[i] = Number(float64(i + 1))
		names[i] = String(name)
		ages[i] = Number(float64(22 + src.I63n(43)))
		emails[i] = String(fmt.Sprintf("%s%d@%s.com",
			strings.ReplaceAll(strings.ToLower(name), " ", "."), i,
			strings.ReplaceAll(strings.ToLower(company), " ", "")))
		phones[i] = String(fmt.Sprintf("(%d) %d-%d",
			200+src.I63n(800), 200+src.I63n(800), 1000+src.I63n(9000)))
		ssns[i] = String(fmt.Sprintf("%03d-%02d-%04d",
			100+src.I63n(900), 10+src.I63n(90), 1000+src.I63n(9000)))
		companies[i] = String(company)
		departments[i] = String(pick(sampleDepartments))
		salaries[i] = Number(float64(40000 + src.I63n(120000)))
		hireDates[i] = Time(epoch.AddDate(0, 0, int(src.I63n(3650))))
	}

	d, err := New(
		NewColumn("EmployeeID", NumericKind, ids),
		NewColumn("Name", StringKind, names),
		NewColumn("Age", NumericKind, ages),
		NewColumn("Email", StringKind, emails),
		NewColumn("Phone", StringKind, phones),
		NewColumn("SSN", StringKind, ssns),
		NewColumn("Company", CategoricalKind, companies),
		NewColumn("Department", CategoricalKind, departments),
		NewColumn("Salary", NumericKind, salaries),
		NewColumn("HireDate", DateKind, hireDates),
	)
	if err != nil {
		// All columns are constructed with n rows and unique names.
		panic(err)
	}
	return d
}
