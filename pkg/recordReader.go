package gainmap

import (
	"strconv"
	"strings"
)

// DecodeRecord splits one event line into its four channel lists and the
// amplitudes of the readout channels.
//
// Layout: three header tokens, then x-left, y-left, x-right and y-right,
// each as a length L followed by L channel indices, then NADC amplitudes.
// With amplitudePrefix the amplitudes are preceded by one count token.
func DecodeRecord(line string, amplitudePrefix bool) (EventRecord, error) {
	var record EventRecord
	words := strings.Fields(line)

	if len(words) < N_HEADER {
		return record, &ErrMalformedRecord{Position: len(words), NTokens: len(words), Reason: "missing header"}
	}
	copy(record.Header[:], words[:N_HEADER])

	var err error
	position := N_HEADER
	if record.XLeft, position, err = readChannelList(words, position); err != nil {
		return record, err
	}
	if record.YLeft, position, err = readChannelList(words, position); err != nil {
		return record, err
	}
	if record.XRight, position, err = readChannelList(words, position); err != nil {
		return record, err
	}
	if record.YRight, position, err = readChannelList(words, position); err != nil {
		return record, err
	}
	if amplitudePrefix {
		position++
	}
	if record.Amplitudes, err = readAmplitudes(words, position); err != nil {
		return record, err
	}
	return record, nil
}

// readChannelList reads a length-prefixed list and returns the position of
// the token that follows it.
func readChannelList(words []string, position int) (ChannelList, int, error) {
	if position >= len(words) {
		return nil, position, &ErrMalformedRecord{Position: position, NTokens: len(words), Reason: "missing list length"}
	}
	length, err := strconv.Atoi(words[position])
	if err != nil || length < 0 {
		return nil, position, &ErrMalformedRecord{Position: position, NTokens: len(words), Reason: "invalid list length"}
	}
	if length == 0 {
		return ChannelList{}, position + 1, nil
	}

	next := position + length + 1
	if next > len(words) {
		return nil, position, &ErrMalformedRecord{Position: next, NTokens: len(words), Reason: "list overruns record"}
	}
	channels := make(ChannelList, length)
	for i := range channels {
		channel, err := strconv.Atoi(words[position+1+i])
		if err != nil {
			return nil, position, &ErrMalformedRecord{Position: position + 1 + i, NTokens: len(words), Reason: "invalid channel"}
		}
		channels[i] = channel
	}
	return channels, next, nil
}

func readAmplitudes(words []string, position int) ([NADC]float64, error) {
	var amplitudes [NADC]float64
	if position+NADC > len(words) {
		return amplitudes, &ErrMalformedRecord{Position: position + NADC, NTokens: len(words), Reason: "missing amplitudes"}
	}
	for i := range amplitudes {
		value, err := strconv.ParseFloat(words[position+i], 64)
		if err != nil {
			return amplitudes, &ErrMalformedRecord{Position: position + i, NTokens: len(words), Reason: "invalid amplitude"}
		}
		amplitudes[i] = value
	}
	return amplitudes, nil
}
