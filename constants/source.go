package constants

// Source records which extraction strategy produced a field value.
// Provenance is part of the output contract, not a debugging aid.
type Source string

const (
	SourceKeywordProximity       Source = "keyword_proximity"
	SourceArabicKeywordProximity Source = "arabic_keyword_proximity"
	SourceKeywordSameElement     Source = "keyword_same_element"
	SourceKeywordMatch           Source = "keyword_match"
	SourceKeyValuePair           Source = "key_value_pair"
	SourcePatternMatch           Source = "pattern_match"
	SourceCalculated             Source = "calculated"
	SourcePositionHeuristic      Source = "position_heuristic"
)

// PatternSource tags a value matched by a named pattern, e.g. "pattern_with_year".
func PatternSource(name string) Source {
	return Source("pattern_" + name)
}
