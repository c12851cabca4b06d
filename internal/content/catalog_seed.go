package content

// seedVersion tags the built-in catalog.
const seedVersion = "2026.2"

// seedRows is the built-in content catalog: two to three rows per
// canonical subtype, drawn from the most common beginner SQL mistakes.
// Row order matters for selection; append new rows, never reorder.
var seedRows = []Row{
	// syntax error (3)
	{
		ID:              "syn-001",
		Subtype:         "syntax error",
		IntendedOutcome: "The query should read as one complete statement: SELECT columns FROM a table, with clauses in order.",
		Feedback:        "A keyword is misspelled or a clause is out of order. Read the statement aloud clause by clause: SELECT, FROM, WHERE, GROUP BY, ORDER BY.",
	},
	{
		ID:              "syn-002",
		Subtype:         "syntax error",
		IntendedOutcome: "Every opening parenthesis and quote should have a matching closing one before the statement ends.",
		Feedback:        "Count your parentheses and quotes. An unclosed string literal makes the engine swallow the rest of the query as text.",
	},
	{
		ID:              "syn-003",
		Subtype:         "syntax error",
		IntendedOutcome: "Items in a SELECT list should be separated by commas, with no trailing comma before FROM.",
		Feedback:        "A stray or missing comma in the column list is the most common parse failure. Check the item just before where the error points.",
	},

	// undefined column (3)
	{
		ID:              "col-001",
		Subtype:         "undefined column",
		IntendedOutcome: "Each referenced column should exist in one of the tables named in FROM, spelled exactly as the schema defines it.",
		Feedback:        "The column name does not match the schema. Column names are matched exactly; check spelling and singular versus plural forms.",
	},
	{
		ID:              "col-002",
		Subtype:         "undefined column",
		IntendedOutcome: "Columns created by an alias in SELECT should be referenced by that alias only where the dialect allows it.",
		Feedback:        "A SELECT alias is not visible inside WHERE. Repeat the expression in WHERE or move the filter into HAVING when grouping.",
	},
	{
		ID:              "col-003",
		Subtype:         "undefined column",
		IntendedOutcome: "Qualified references like \"table.column\" should use the table's alias once an alias has been introduced.",
		Feedback:        "After aliasing a table, the original table name no longer qualifies columns. Use the alias consistently.",
	},

	// undefined table (2)
	{
		ID:              "tbl-001",
		Subtype:         "undefined table",
		IntendedOutcome: "Every table in FROM or JOIN should exist in the practice schema for this problem.",
		Feedback:        "The table name does not exist in this schema. List the schema's tables and compare spelling character by character.",
	},
	{
		ID:              "tbl-002",
		Subtype:         "undefined table",
		IntendedOutcome: "Subquery results need an alias before the outer query can reference them as a table.",
		Feedback:        "A derived table (subquery in FROM) must be named: FROM (SELECT ...) AS \"t\". Without the alias nothing can refer to it.",
	},

	// ambiguous column (2)
	{
		ID:              "amb-001",
		Subtype:         "ambiguous column",
		IntendedOutcome: "When two joined tables share a column name, every reference to it should be qualified with a table alias.",
		Feedback:        "Both joined tables have this column. Prefix it with the table alias, e.g. \"o.id\" instead of bare \"id\".",
	},
	{
		ID:              "amb-002",
		Subtype:         "ambiguous column",
		IntendedOutcome: "The join key should be qualified on both sides of the ON condition.",
		Feedback:        "In the ON clause, name which table each side of the equality comes from; the engine cannot guess.",
	},

	// missing join condition (2)
	{
		ID:              "join-001",
		Subtype:         "missing join condition",
		IntendedOutcome: "Every JOIN should carry an ON condition relating a key in one table to a key in the other.",
		Feedback:        "Without ON, the join pairs every row with every row. Find the foreign key column linking the two tables and equate it to the primary key.",
	},
	{
		ID:              "join-002",
		Subtype:         "missing join condition",
		IntendedOutcome: "The row count of a join should be close to the larger input, not the product of both inputs.",
		Feedback:        "A result far bigger than either table is the signature of a missing or wrong join condition. Check how many rows each side contributes.",
	},

	// aggregate misuse (3)
	{
		ID:              "agg-001",
		Subtype:         "aggregate misuse",
		IntendedOutcome: "Every non-aggregated column in SELECT should also appear in GROUP BY.",
		Feedback:        "A column is selected raw while others are aggregated. Either aggregate it, group by it, or drop it from the SELECT list.",
	},
	{
		ID:              "agg-002",
		Subtype:         "aggregate misuse",
		IntendedOutcome: "Filters on aggregate results belong in HAVING; filters on raw rows belong in WHERE.",
		Feedback:        "WHERE runs before grouping, so it cannot see COUNT or SUM. Move conditions on aggregates into a HAVING clause.",
	},
	{
		ID:              "agg-003",
		Subtype:         "aggregate misuse",
		IntendedOutcome: "Aggregates should not be nested directly, e.g. MAX(COUNT(...)) needs a subquery or CTE.",
		Feedback:        "One aggregate cannot wrap another in a single level. Compute the inner aggregate in a subquery, then aggregate over its result.",
	},

	// type mismatch (2)
	{
		ID:              "typ-001",
		Subtype:         "type mismatch",
		IntendedOutcome: "Comparisons should put values of the same type on both sides: numbers with numbers, text with quoted text.",
		Feedback:        "One side of the comparison is text and the other is a number. Quote text literals and leave numeric literals unquoted.",
	},
	{
		ID:              "typ-002",
		Subtype:         "type mismatch",
		IntendedOutcome: "Date columns should be compared against date literals in the dialect's expected format.",
		Feedback:        "The date literal's format does not match what the column stores. Check the expected format, usually ISO \"YYYY-MM-DD\".",
	},

	// wrong result shape (2)
	{
		ID:              "shape-001",
		Subtype:         "wrong result shape",
		IntendedOutcome: "The result should have exactly the columns the problem asks for, in the order it asks for them.",
		Feedback:        "The query runs but returns extra, missing, or reordered columns. Re-read the expected output header and match it exactly.",
	},
	{
		ID:              "shape-002",
		Subtype:         "wrong result shape",
		IntendedOutcome: "Queries combined with UNION should produce the same number of columns with compatible types.",
		Feedback:        "Each side of a UNION must select the same column count. Pad with literals or trim the longer side.",
	},

	// incomplete query (3) — the dataset-guaranteed default
	{
		ID:              "inc-001",
		Subtype:         "incomplete query",
		IntendedOutcome: "A complete statement needs at least a SELECT list and a FROM clause naming a table.",
		Feedback:        "The statement ends before the engine has enough to execute. Start from SELECT ... FROM ... and add clauses one at a time.",
	},
	{
		ID:              "inc-002",
		Subtype:         "incomplete query",
		IntendedOutcome: "Each clause that is opened should be finished: a WHERE needs a condition, an ORDER BY needs a column.",
		Feedback:        "A clause keyword is present with nothing after it. Either complete the clause or remove the keyword.",
	},
	{
		ID:              "inc-003",
		Subtype:         "incomplete query",
		IntendedOutcome: "Work incrementally: run the smallest query that executes, then grow it toward the requested result.",
		Feedback:        "Rather than writing the whole query at once, verify SELECT * FROM the main table runs, then add filters and joins one by one.",
	},
}
