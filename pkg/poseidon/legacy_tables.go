package poseidon

// Legacy tables: x^5, 63 full rounds plus the initial round-constant row.
// These match the Pasta Fp "three wire" legacy set used by the Mina
// transaction and string signers.

var legacyMDS = [Width][Width]string{
	{
		"5328350144166205084223774245058198666309664348635459768305312917086056785354",
		"15214731724107930304595906373487084110291887262136882623959435918484004667388",
		"22399519358931858664262538157042328690232277435337286643350379269028878354609",
	},
	{
		"10086628405675314879458652402278736459294354590428582803795166650930540770072",
		"17127968360683744052278857147989507037142007029142438136689352416106177192235",
		"14207324749280135281015658576564097509614634975132487654324863824516044294735",
	},
	{
		"3059104278162906687184746935153057867173086006783171716838577369156969739687",
		"16755849208683706534025643823697988418063305979108082130624352443958404325985",
		"16889774624482628108075965871448623911656600744832339664842346756371603433407",
	},
}

var legacyRoundConstants = [][Width]string{
	{
		"1346081094044643970582493287085428191977688221215786919106342366360741041016",
		"10635969173348128974923358283368657934408577270968219574411363948927109531877",
		"18431955373344919956072236142080066866861234899777299873162413437379924987003",
	},
	{
		"5797044060651575840084283729791357462720161727701814038830889113712361837236",
		"931288489507796144596974766082847744938192694315568692730730202141894005205",
		"13659894470945121760517769979107966886673294523737498361566285362771110125394",
	},
	{
		"6076231707445968054305995680347976771585015308155855387339303513025362636128",
		"28822740034050339685362260108484262889265034407340240070058997651710236456303",
		"23420266473857869790486107029614186913447272961845992963194006142267563993493",
	},
	{
		"13753917374184785903125509246122783296344288469304898921025291716613575849357",
		"22396739346703340038555577564698139382745239004673153148674304627904081092826",
		"13064238335532551154986111986409392866270911640785653458047811526842088084911",
	},
	{
		"23165923875642452719095776619341762858050322341374771345641255745672274104746",
		"1876216571769482372914291210815859835162659440705283782713345335434924136736",
		"25448252060136178247213604035267580231762596830634036926922217427938159849142",
	},
	{
		"2161875315509206970842862195937323600322108268401381254431163181777726747153",
		"19159855698625842998331760283165907305622417625829203038229273729196960321630",
		"24828563875172432296791053766778475681869974948122169083176331088266823626561",
	},
	{
		"15959479662608710141128458274961057999257961784282074767105536637788386907463",
		"8006369581283017287449277389162056290714176164680299906116833200510117952858",
		"18794336794618132129607701188430371953320538976527988886453665523008714542779",
	},
	{
		"19408271715954593722501381885401160867835377473312521553027032015227895029571",
		"13654747284005184272412579731446984220568337794941823533879059135026064413631",
		"14094055032353750931629930778481002727722804310855727808905931659115939920989",
	},
	{
		"13241818625838429282823260827177433104574315653706102174619924764342778921524",
		"25709259239494174564705048436260891089407557689981668111890003079561388887725",
		"26866626910239634723971078462134580196819809568632305020800296809092442642381",
	},
	{
		"23886826350713085163238005260075062110062681905356997481925492650252417143049",
		"16853602711255261520713463306790360324679500458440235992292027384928526778856",
		"18444710386168488194610417945072711530390091945738595259171890487504771614189",
	},
	{
		"16896789009769903615328691751424474161656500693270070895928499575572871141439",
		"23842266984616972287898037872537536999393060934879414668030219493005225085992",
		"24369698563802298585444760814856330583118549706483939267059237951238240608187",
	},
	{
		"25360195173713628054110426524260405937218170863260484655473435413697869858790",
		"1486437708678506228822038923353468635394979165769861487132708983207562337116",
		"18653498960429911228442559598959970807723487073275324556015861725806677047150",
	},
	{
		"18878179044241268037057256060083772636369783391816038647949347814518015576522",
		"178715779905629247116805974152863592571182389085419970371289655361443016848",
		"8381006794425876451998903949255801618132578446062133243427381291481465852184",
	},
	{
		"4176946262813877719206528849579392120806054050640974718891398605746592169324",
		"16376345520728802444699629729684297833862527190772376028981704525651968727081",
		"8399065769082251057361366626601550736334213197703006866551331927128775757919",
	},
	{
		"15435308585611812393531506745122614542196708285088622615406141986333182280857",
		"4082259282787276939431186930090898350392871145699460879678141552997816391817",
		"26348742719959309014730178326877937464605873211235784184917342950648457078699",
	},
	{
		"9707631711734344681918469569872517425107158187591261754498805460753455298868",
		"27910768846011709391567916011595957279088224137468948238696800459136335473132",
		"20407239095656434708569263842372155762970847207558227886302782130015730063802",
	},
	{
		"22726225412881182965250630589245572283256255052470345984553083359461473893802",
		"12443967854426795490638709950679156338200426963050610832781263082981525248175",
		"27102543658848146076219989119639465430524061997280788166887046421706499775415",
	},
	{
		"14427224233985680214097547669945064793149553513421479297921556194475574770861",
		"22917454832925781549840198815703114840452733537799472739275668965081704937832",
		"3455076056123630366063931123762198941796412458154689469887583689725886013901",
	},
	{
		"4513100023937785913596662867311227004762025658663076805918211014066645403017",
		"18187619530784075723418065322038024507729605774832001333883311123910954334059",
		"9447065431426150382325592560406989926365684509675374414068135115024495130938",
	},
	{
		"3227816098015819796753427754968234889554095489076864339942014527747604603014",
		"14798316759185072116520458171957899889489461918408669809912344751222514418582",
		"23013904852315603905843158448056763116188801262838729536210355401378476650033",
	},
	{
		"20979191509934291452182967564058656088941447895799901211038858159903580333267",
		"20772973010251235271448378823573767262405703078344288856168565499702414379868",
		"10105446427739226002497411811738001382334316505480517822035303561899927603685",
	},
	{
		"11079074761356717003579108002319997196881121172538617046865136940931215263187",
		"4693927775411489288330326150094711670434597808961717172753867514688725690438",
		"18581720304902876944842830383273503265470859268712618325357902881821721540119",
	},
	{
		"3065369948183164725765083504606321683481629263177690053939474679689088169185",
		"18515622379147081456114962668688706121098539582467584736624699157043365677487",
		"17563088600719312877716085528177751048248154461245613291986010180187238198006",
	},
	{
		"26199746176994924146211004840756471702409132230831594954444947705902602287290",
		"7576136600627345523051497639367002272003104458453478964661395239732811642605",
		"20058687874612168338994287374025378897088936171250328231848098497610185784281",
	},
	{
		"16894722532414195606958290526999761110785277556463400588047573469106594850228",
		"13961730805696859614283621225672002906734926278118993580398533742874863598733",
		"25256842011135514243352951950573936602906198374305137963222382546140030647211",
	},
	{
		"18530360047537856737482157200091774590035773602620205695980247565433703032532",
		"23014819965938599260086897799541446473887833964178378497976832161473586995397",
		"27911426213258307990762460361663504655967992659180759140364181941291843542489",
	},
	{
		"1067338118323302017358103178057182291035336430305886255160210378977812067042",
		"17219092885519007424608854460610388434712113621163885775309496940189894433620",
		"16432921127615937542183846559291144733339643093361323334499888895135356545408",
	},
	{
		"28608851042959977114787048070153637607786033079364369200270218128830983558707",
		"10121629780013165888398831090128011045011860641816380162950736555305748332191",
		"2348036340843128746981122630521268144839343500596932561106759754644596320722",
	},
	{
		"16619881370356823200358060093334065394764987467483650323706184068451904156452",
		"2302436627861989749837563733434625231689351276818486757748445924305258835336",
		"27514536540953539473280001431110316405453388911725550380123851609652679788049",
	},
	{
		"9459277727420672604737117687200019308525004979918488827092207438664125039815",
		"23425670740358068509956137586663046763224562225383386726193078231034380596217",
		"7641885067011661443791509688937280323563328029517832788240965464798835873658",
	},
	{
		"9579420382351699601929202663836555665702024548386778299996961509578687980280",
		"18513671386572584282611234979588379470994484682444053600751415262497237017703",
		"24923151431234706142737221165378041700050312199585085101919834422744926421604",
	},
	{
		"21131320841803068139502705966375283830095161079635803028011171241658723560073",
		"19208476595309656066589572658712717685014329237892885950958199953675225096566",
		"24023185216737416080949689106968568821656545490748664446389634158498624398204",
	},
	{
		"7510552996848634969347937904645640209946785877619890235458182993413526028718",
		"3694415017252995094553868781762548289196990492336482360084813900937464847638",
		"9219021070107873028263141554048987416559034633883158827414043929220388719352",
	},
	{
		"5058327241234443421111591959922712922949620710493120384930391763032694640881",
		"13148252221647574076185511663661016015859769210867362839817254885265598775418",
		"15186790492457240277904880519227706403545816456632095870015828239411033220638",
	},
	{
		"2775942914650502409705888572245750999561427024488403026572311267798009048466",
		"6277965230841030155341171319927732572492215818164736949144854827643964384893",
		"24144742149845235561087977558785057713814731737434473021812189457617252043745",
	},
	{
		"25789129719327437503403457598813971826156253950521984610569937361506914183550",
		"21500534320778995945845999974779950304491968082325255355181901574840373597824",
		"17185359848218837018503091932245529880546896465437232425673134558221638601375",
	},
	{
		"12253896579078110143384981818031883112606762215016553811786428215758384195713",
		"12956658260778456372481429232709881794962204180363200699121804724437678625542",
		"3023603786717368708677300377055384474816569333060487675635618249403832078921",
	},
	{
		"4186492855716808019562789862833898284927736051002588766326482010810259565130",
		"4263939782228419774639068267872291539552889472311225829898746091327730032923",
		"24068843626280451423530509388397151179174104901782990365720205643492047328816",
	},
	{
		"14564937827374621319716285527475223392664010281568256859627186463065876537730",
		"28367596550218705971881480694115935470211319172596432472834880507822452927283",
		"28712267437482356021504544448225827500268648754270274754623969882031853409874",
	},
	{
		"4542596163006916397403529184431773692747461300288194722982487051249951403191",
		"2530461821259252672899452671728393208543894014761816288817584587718369998371",
		"12886393063011539390567049190923398676964700147222878509238966758839020897414",
	},
	{
		"21593897590707514492037699253654745501762191795293908682495110982956631870528",
		"13233005790593128135480716846773978578237145313006994631606474472023504621256",
		"21621863098292803642478350494794106282518362577273973885587684567452726939909",
	},
	{
		"26068620073001644720969640099644251616742620988609091568084348314770436291745",
		"18248589586787935500122854210401321966459127818593446990365211078521058875685",
		"21247134484403265289037859533347798468858819117600251067578809852124865474448",
	},
	{
		"7947383127165915366383984718363902897504221803836013123394785749404572432524",
		"22173041014621867335598230447618036223462011647696367239478182269973488867154",
		"16773227734018849308448505860847939069870370055633571816925675705713088305139",
	},
	{
		"10708707957340055662073314227607620808612686977606082605219160019699644826999",
		"21249897193797038261479589555720746994050836195265348846222835266344091683000",
		"12581195059139097540117398803363514148192715293133623516709277290477633379593",
	},
	{
		"19779599816866992123290302397082614570282926215253589712189610064229996603178",
		"21749216503901548676985371189807470207364320167486559936962401093285243029177",
		"17600045923623503357380202389718735904174992978547372448837488832457719009224",
	},
	{
		"2732872979548118117758016335601225525660858727422778256671975055129965858636",
		"13703031005128062046175331918702218558750713240446179585947851411173844703597",
		"28447710105386636841938034820015573492556750872924193415447818187228356409281",
	},
	{
		"28539960355005748517007309210788803416171161412204526246799800716567376494244",
		"21329318452221893900731030722137844458345358926323127858742388587761302609863",
		"28135302149599894709369178097439582767613940517471323224020113411362601191873",
	},
	{
		"24980774120400248734054527936006392540889095705961960837980443629260392758683",
		"20339911045808632098936066397942175169549806052128535543540543556255197716643",
		"7929293103930252545581851978492699598413941396422930641071359388697302362494",
	},
	{
		"8911092207145893152276662096451247820054843777071569723455408545101628926203",
		"19648860643145256523615441075182036100116634560394529500146405733687718224516",
		"14635387208623683806428528837466762532853903031263830054986064902455379735903",
	},
	{
		"11555212214346132926966321609673228184079851030522218543981385635403167028692",
		"20896918157639814425520058178561910811657326967880217845710779511927814874973",
		"4650158165912007049140499755153804318686705949436165235742106170124284287326",
	},
	{
		"13880660273492757167295696447853232191657893303250187467329180558670697369810",
		"8043529172463774320604378774840863923445982272478964686447801046272917236836",
		"2134399296482715903442913099374581981696436050603410080564843555725771329441",
	},
	{
		"27320952903412641133501507962185246982787769547770982814240701526492601978122",
		"23417491374379751329394424924400186404791519133465537872457405970098902747611",
		"17612427354278346772575179176139417348059847375297761006336024476146551185903",
	},
	{
		"10710998507064742997612080847223278109404482930427999113323732519626499166548",
		"14958094513415797513745395709487730603918953350067504982704138489305723550923",
		"24096319595904213497633343966229498735553590589105811393277073274927955202995",
	},
	{
		"17983724131200292654039765185049138356840415443160477259330748730019147254309",
		"17598096800487588874709548646068838880468456205252324677357706597166777506441",
		"27420647821110229619898200875848631488422182349567475956209153112306555222281",
	},
	{
		"448538544835457571662601142415301047108854812427100562339376187510452313026",
		"23494184556634922103535803143214434479598067155171780264810485708203176455201",
		"22626342941879801989161990529511235538216563009907378573817996229389756621777",
	},
	{
		"26128268137723417163973860961686381960826033145738852158792607959175787222856",
		"20225791828042873305317281581105429726352058325970107209484198122707862156597",
		"7538871133759632802857159609785118198934349221046986784429069814655215585732",
	},
	{
		"26184554861259642274153262777073624024579929401668865520166966302070394487366",
		"28755259264665180745537307265993667261709206143628938749669440804401623257679",
		"11896066093033549470312328497237649508068258723531931099214795928200015717321",
	},
	{
		"21657721599978732693249012287058163532690942515202465984736373311077240614059",
		"9214914097169852704753116653702415951907628005986883140609006971322091003693",
		"18710111680849814325169297240208687402588261569152088592693815711857504371037",
	},
	{
		"6813635166770764528979084175325709935892248249948967889926276426090222296643",
		"20546585456429436268067726231902751119458200511988152296570567167520382569278",
		"20087466019194902429054761607398988292568594301671509779549344754172952693871",
	},
	{
		"28185105286740691904534067831357491310995891986363455251895371651360605333143",
		"10108348212894231193041286244259038275269464277821588425688314560368589986063",
		"11433633215392393209829215018579238412423821563056156785641278458497271271546",
	},
	{
		"27870881917195016999862550657996865268956893566432995492427618003637597051321",
		"102309803677783876701097881491240456320211833502658383473112057006867019389",
		"22844040227595875612525628393174357057929113317578127744718774517498324646590",
	},
	{
		"18364790233947478619325319418813215212267974311771564959136180502266118026133",
		"2480624341921718230432383518425561514824501138863702825916674641657321180841",
		"16778939567530361665956758171503829349658551798564323167725356065198936433124",
	},
	{
		"11947564511486966895926950599696532964589539443187518177489990556481125699966",
		"3133187646540385483015602955087323554103587039123577645562801570574691666057",
		"27704797101265438206569218421707753788081674727344603874614391656565567951541",
	},
	{
		"13001484695584753475562184349533365512515447041450030471627087395341039487710",
		"477322000667279478600757543806155989948171541982639893984064422067850617496",
		"13913755821658634147813329813115566967428755223601185963529801459396673113438",
	},
}
