/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations under the License.
 */

// Package ui hosts the optional desktop shell. The Fyne implementation is
// behind the fyne build tag; headless builds get a stub that returns
// ErrUINotAvailable.
package ui

import "errors"

// ErrUINotAvailable is returned by Run when the binary was built without
// the desktop UI (no fyne tag, or fyne without cgo).
var ErrUINotAvailable = errors.New("desktop UI not available in this build")
