package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/mockdb/bootstrap"
	"github.com/fulldump/mockdb/configuration"
)

var VERSION = "dev"

var banner = `
                      _       _ _     
  _ __ ___   ___   ___| | ____| | |__  
 | '_ ' _ \ / _ \ / __| |/ / _' | '_ \ 
 | | | | | | (_) | (__|   < (_| | |_) |
 |_| |_| |_|\___/ \___|_|\_\__,_|_.__/ 
                      version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	bootstrap.VERSION = VERSION
	start, _ := bootstrap.Bootstrap(&c)
	start()
}
