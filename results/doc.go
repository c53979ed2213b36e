// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results formats tabulated IRV outcomes for people and spreadsheets.

WriteCSV emits the final round as Option,Votes,Percentage rows with
percentages at one decimal place. Summary renders a one-line description
such as "Tokyo wins in the 2nd round with 2 of 3 votes (66.7%)".
*/
package results
