// Package voicesearch resolves free-text voice queries into playback.
//
// Assistant transcriptions are noisy: "play the daily in podbridge" arrives
// with the app-routing suffix still attached. The resolver therefore expands
// a query into candidates by dropping trailing words, longest candidate
// first, and walks three match tiers in order: podcast title, episode title,
// then curated list title. A query that matches nothing publishes an error
// descriptor so the consumer can voice the failure.
package voicesearch
