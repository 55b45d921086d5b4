// Package station models the café's preparation stations and their work
// queues. Stations are routing targets selected by type; queue entries are
// the routed order lines a station still has to prepare.
package station
