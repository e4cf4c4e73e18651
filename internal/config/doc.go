// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

/*
Package config loads Moodlyrics configuration with Koanf v2.

Sources, lowest to highest precedence:
  - built-in defaults
  - a YAML file: CONFIG_PATH, ./config.yaml or /etc/moodlyrics/config.yaml
  - environment variables

Only known environment variables are read; see envMappings. The most common:

	HTTP_PORT         server.port (default 8470)
	SEARCH_URL        search.url (empty selects the in-memory index)
	SEARCH_INDEX      search.index, also used as recommend.index
	BADGER_PATH       store.path
	ARTIST_CACHE_TTL  cache.artist_ttl (0 capacity disables the cache)
	RECOMMEND_SEED    recommend.seed (0 seeds from the clock)
	LOG_LEVEL         logging.level
	CORS_ORIGINS      comma-separated list

Example config.yaml:

	server:
	  port: 8470
	search:
	  url: http://opensearch:9200
	  index: songs
	recommend:
	  sentiment:
	    quota: 5
	    artist_cap: 3

Load validates the result with go-playground/validator tags plus
recommend.Config.Validate and a few production-only rules.
*/
package config
