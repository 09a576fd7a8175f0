package bigquery

// Job states reported by the server.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
)

// Write and create dispositions accepted by the job configurations.
const (
	CreateIfNeeded = "CREATE_IF_NEEDED"
	CreateNever    = "CREATE_NEVER"
	WriteAppend    = "WRITE_APPEND"
	WriteTruncate  = "WRITE_TRUNCATE"
	WriteEmpty     = "WRITE_EMPTY"
)

// Job mirrors the server's job resource. Only the fields the client reads
// or writes are declared; unknown response fields are dropped on decode.
type Job struct {
	Kind          string            `json:"kind,omitempty"`
	ID            string            `json:"id,omitempty"`
	JobReference  *JobReference     `json:"jobReference,omitempty"`
	Configuration *JobConfiguration `json:"configuration,omitempty"`
	Status        *JobStatus        `json:"status,omitempty"`
	Statistics    *JobStatistics    `json:"statistics,omitempty"`
}

// JobConfiguration holds exactly one of the four job type configurations.
type JobConfiguration struct {
	Query   *QueryConfiguration   `json:"query,omitempty"`
	Load    *LoadConfiguration    `json:"load,omitempty"`
	Extract *ExtractConfiguration `json:"extract,omitempty"`
	Copy    *CopyConfiguration    `json:"copy,omitempty"`

	// Properties carries client-configured key=value job properties.
	Properties map[string]string `json:"properties,omitempty"`
}

// JobTypeName returns which of query/load/extract/copy is configured, or ""
// when none is.
func (c *JobConfiguration) JobTypeName() string {
	switch {
	case c == nil:
		return ""
	case c.Query != nil:
		return "query"
	case c.Load != nil:
		return "load"
	case c.Extract != nil:
		return "extract"
	case c.Copy != nil:
		return "copy"
	}
	return ""
}

type JobStatus struct {
	State       string       `json:"state,omitempty"`
	ErrorResult *ErrorProto  `json:"errorResult,omitempty"`
	Errors      []ErrorProto `json:"errors,omitempty"`
}

// JobStatistics carries millisecond epoch timestamps; the server serializes
// the 64-bit values as JSON strings.
type JobStatistics struct {
	StartTime           int64 `json:"startTime,omitempty,string"`
	EndTime             int64 `json:"endTime,omitempty,string"`
	TotalBytesProcessed int64 `json:"totalBytesProcessed,omitempty,string"`
}

type QueryConfiguration struct {
	Query             string            `json:"query"`
	DefaultDataset    *DatasetReference `json:"defaultDataset,omitempty"`
	DestinationTable  *TableReference   `json:"destinationTable,omitempty"`
	CreateDisposition string            `json:"createDisposition,omitempty"`
	WriteDisposition  string            `json:"writeDisposition,omitempty"`
	Priority          string            `json:"priority,omitempty"`
}

type LoadConfiguration struct {
	DestinationTable    *TableReference `json:"destinationTable"`
	SourceURIs          []string        `json:"sourceUris,omitempty"`
	Schema              *TableSchema    `json:"schema,omitempty"`
	CreateDisposition   string          `json:"createDisposition,omitempty"`
	WriteDisposition    string          `json:"writeDisposition,omitempty"`
	FieldDelimiter      string          `json:"fieldDelimiter,omitempty"`
	SkipLeadingRows     *int64          `json:"skipLeadingRows,omitempty"`
	Encoding            string          `json:"encoding,omitempty"`
	Quote               *string         `json:"quote,omitempty"`
	MaxBadRecords       *int64          `json:"maxBadRecords,omitempty"`
	AllowQuotedNewlines *bool           `json:"allowQuotedNewlines,omitempty"`
	SourceFormat        string          `json:"sourceFormat,omitempty"`
}

type ExtractConfiguration struct {
	SourceTable       *TableReference `json:"sourceTable"`
	DestinationURI    string          `json:"destinationUri,omitempty"`
	DestinationFormat string          `json:"destinationFormat,omitempty"`
	FieldDelimiter    string          `json:"fieldDelimiter,omitempty"`
	PrintHeader       *bool           `json:"printHeader,omitempty"`
}

type CopyConfiguration struct {
	SourceTable       *TableReference `json:"sourceTable"`
	DestinationTable  *TableReference `json:"destinationTable"`
	CreateDisposition string          `json:"createDisposition,omitempty"`
	WriteDisposition  string          `json:"writeDisposition,omitempty"`
}

type TableSchema struct {
	Fields []*TableFieldSchema `json:"fields"`
}

type TableFieldSchema struct {
	Name   string              `json:"name"`
	Type   string              `json:"type,omitempty"`
	Mode   string              `json:"mode,omitempty"`
	Fields []*TableFieldSchema `json:"fields,omitempty"`
}

type Project struct {
	Kind             string            `json:"kind,omitempty"`
	ID               string            `json:"id,omitempty"`
	ProjectReference *ProjectReference `json:"projectReference,omitempty"`
	FriendlyName     string            `json:"friendlyName,omitempty"`
}

type Dataset struct {
	Kind             string            `json:"kind,omitempty"`
	ID               string            `json:"id,omitempty"`
	DatasetReference *DatasetReference `json:"datasetReference,omitempty"`
	FriendlyName     string            `json:"friendlyName,omitempty"`
	Description      string            `json:"description,omitempty"`
	LastModifiedTime int64             `json:"lastModifiedTime,omitempty,string"`
	Access           []AccessEntry     `json:"access,omitempty"`
}

// AccessEntry grants a role to exactly one principal.
type AccessEntry struct {
	Role                  string `json:"role,omitempty"`
	UserByEmail           string `json:"userByEmail,omitempty"`
	GroupByEmail          string `json:"groupByEmail,omitempty"`
	Domain                string `json:"domain,omitempty"`
	SpecialGroup          string `json:"specialGroup,omitempty"`
	AllAuthenticatedUsers bool   `json:"allAuthenticatedUsers,omitempty"`
}

type Table struct {
	Kind             string          `json:"kind,omitempty"`
	ID               string          `json:"id,omitempty"`
	TableReference   *TableReference `json:"tableReference,omitempty"`
	FriendlyName     string          `json:"friendlyName,omitempty"`
	Description      string          `json:"description,omitempty"`
	Schema           *TableSchema    `json:"schema,omitempty"`
	NumRows          uint64          `json:"numRows,omitempty,string"`
	NumBytes         int64           `json:"numBytes,omitempty,string"`
	ExpirationTime   int64           `json:"expirationTime,omitempty,string"`
	LastModifiedTime int64           `json:"lastModifiedTime,omitempty,string"`
}

// ---- List responses ----

type projectList struct {
	Projects      []*Project `json:"projects,omitempty"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type datasetList struct {
	Datasets      []*Dataset `json:"datasets,omitempty"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type tableList struct {
	Tables        []*Table `json:"tables,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type jobList struct {
	Jobs          []*Job `json:"jobs,omitempty"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// ---- Table data ----

type TableRow struct {
	F []TableCell `json:"f"`
}

type TableCell struct {
	V string `json:"v"`
}

type tableDataList struct {
	TotalRows int64       `json:"totalRows,omitempty,string"`
	Rows      []*TableRow `json:"rows,omitempty"`
}
