// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger = log.Logger.With().Str("module", "physio").Logger()

// SetLogger replaces the logger used for diagnostics such as trigger count
// discrepancies and trigger channel removal.
func SetLogger(l zerolog.Logger) {
	logger = l
}
