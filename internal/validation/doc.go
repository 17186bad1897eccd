// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package validation wraps go-playground/validator v10 with a shared
// instance, wire-name error messages and a lastfm_username rule.
//
//	type streaksQuery struct {
//	    Username string `query:"username" validate:"required,lastfm_username"`
//	    From     int64  `query:"from" validate:"gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    rw.ValidationError(verr.Error(), verr.Details())
//	}
//
// Field names in messages come from the json, query or koanf tag, in that
// order, so a failing config key is reported as "page_limit" rather than
// "PageLimit".
package validation
