// Package duration parses compact "<integer><unit>" strings such as "200ms"
// or "4m" into time.Duration values. Recognized units are ns, us, ms, s and m.
package duration
