/*
sequence.go - Legal ordering of clock events

PURPOSE:
  Decides whether a proposed event may follow the last recorded event
  for a pair. This is what keeps the stored log replayable: a log that
  only ever grew through this check is always a valid path through the
  transition table below.

TRANSITION TABLE (proposed -> allowed previous):
  Entrada  <- none, Saída
  Pausa    <- Entrada, Retorno
  Retorno  <- Pausa
  Saída    <- Entrada, Retorno

  So no double Entrada without a Saída in between, no Retorno without
  an unmatched Pausa, no Pausa or Saída on a closed pair.

COMPLEXITY:
  Pure function over the last event only. O(1) given a "last event per
  pair" lookup; the full history is never needed here.
*/
package ledger

// allowedPrevious lists, per proposed event, which last-event states
// permit it. The empty EventType means "pair never logged".
var allowedPrevious = map[EventType][]EventType{
	EventEntrada: {"", EventSaida},
	EventPausa:   {EventEntrada, EventRetorno},
	EventRetorno: {EventPausa},
	EventSaida:   {EventEntrada, EventRetorno},
}

// SequenceAllowed reports whether proposed may follow last.
// last is empty when the pair has no recorded events.
func SequenceAllowed(last, proposed EventType) bool {
	for _, prev := range allowedPrevious[proposed] {
		if prev == last {
			return true
		}
	}
	return false
}

// ValidateSequence returns a SequenceError when proposed may not
// follow last, nil otherwise.
func ValidateSequence(pair Pair, last, proposed EventType) error {
	if _, ok := allowedPrevious[proposed]; !ok {
		return ErrUnknownEventType
	}
	if !SequenceAllowed(last, proposed) {
		return &SequenceError{Pair: pair, Last: last, Proposed: proposed}
	}
	return nil
}
