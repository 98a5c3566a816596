/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shotcaller/internal/refsheet"
	"shotcaller/internal/shotlist"
)

func TestWriteXLSX_ContainsRequiredParts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shotlist.xlsx")
	if err := WriteXLSX(out, exportFixtureTable()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/styles.xml",
		"xl/worksheets/sheet1.xml",
	} {
		if !found[name] {
			t.Fatalf("missing archive part %s (have %v)", name, zr.File)
		}
	}
}

func TestWriteXLSX_AppendsExtension(t *testing.T) {
	base := filepath.Join(t.TempDir(), "shotlist")
	if err := WriteXLSX(base, exportFixtureTable()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if _, err := os.Stat(base + ".xlsx"); err != nil {
		t.Fatalf("expected %s.xlsx: %v", base, err)
	}
}

func TestWriteXLSX_HeaderRoundTripsThroughReader(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shotlist.xlsx")
	if err := WriteXLSX(out, exportFixtureTable()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	got := refsheet.Columns(out)
	if !reflect.DeepEqual(got, shotlist.DefaultColumns()) {
		t.Fatalf("header row = %v, want default catalog columns", got)
	}
}

func TestColumnRef(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "A"},
		{11, "L"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, c := range cases {
		if got := columnRef(c.in); got != c.want {
			t.Fatalf("columnRef(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestXmlEsc(t *testing.T) {
	if got := xmlEsc(`<Beat & "Action">`); got != "&lt;Beat &amp; &quot;Action&quot;&gt;" {
		t.Fatalf("xmlEsc = %q", got)
	}
	if got := xmlEsc("plain"); got != "plain" {
		t.Fatalf("xmlEsc(plain) = %q", got)
	}
}
